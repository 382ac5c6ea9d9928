package libcnr

import (
	"sync/atomic"

	"github.com/plan-systems/klog"
)

// Per-state packing: bit 0 is the cop-turn win flag, the remaining bits count
// the robber moves still believed safe. A robber-turn position is lost for
// the robber exactly when its safe count is zero, so no separate robberWin
// bit exists. A single word keeps the combined update atomic.
//
// Go's smallest atomic is 32 bits, so unlike a byte-packed table the safe
// counter can never overflow a graph degree (<= 255 by construction).
const (
	copWinBit = uint32(1)
	safeShift = 1
)

// StateTable holds the mutable per-state flags and counters for one turn-pair
// state id s = cId*N + r. It is written concurrently during retrograde waves
// through the two claim primitives below, and read-only afterwards.
type StateTable struct {
	numStates uint64
	cells     []atomic.Uint32
	depth     []int32 // cop-turn capture distance in half-moves; -1 = not a cop win
}

func NewStateTable(numStates uint64, trackDepth bool) *StateTable {
	st := &StateTable{
		numStates: numStates,
		cells:     make([]atomic.Uint32, numStates),
	}
	if trackDepth {
		st.depth = make([]int32, numStates)
		for i := range st.depth {
			st.depth[i] = -1
		}
	}
	klog.V(2).Infof("allocated state table: %d states, %d MB",
		numStates, numStates*4/(1024*1024))
	return st
}

func (st *StateTable) NumStates() uint64 {
	return st.numStates
}

func (st *StateTable) CopWin(s uint64) bool {
	return st.cells[s].Load()&copWinBit != 0
}

func (st *StateTable) SafeCount(s uint64) uint32 {
	return st.cells[s].Load() >> safeShift
}

func (st *StateTable) RobberWin(s uint64) bool {
	return st.SafeCount(s) == 0
}

// InitCapture marks s as a capture: cop win, zero safe moves.
// Only valid during single-threaded initialization.
func (st *StateTable) InitCapture(s uint64) {
	st.cells[s].Store(copWinBit)
	if st.depth != nil {
		st.depth[s] = 0
	}
}

// InitSafeCount seeds the safe-move counter of a non-capture state.
// Only valid during single-threaded initialization.
func (st *StateTable) InitSafeCount(s uint64, closedDegree uint32) {
	st.cells[s].Store(closedDegree << safeShift)
}

// ClaimCopWin sets the cop-turn win flag and reports whether this call
// performed the 0 -> 1 transition. Exactly one caller wins the claim; only
// that caller may enqueue s onto the next frontier.
func (st *StateTable) ClaimCopWin(s uint64) bool {
	for {
		prior := st.cells[s].Load()
		if prior&copWinBit != 0 {
			return false
		}
		if st.cells[s].CompareAndSwap(prior, prior|copWinBit) {
			return true
		}
	}
}

// ClaimSafeDecrement removes one safe robber move from s and reports whether
// this call performed the 1 -> 0 transition, i.e. whether s just became a
// robber-turn loss. States already at zero (captures) are left untouched:
// a non-capture state receives exactly closed-degree decrements in total, so
// the counter cannot underflow.
func (st *StateTable) ClaimSafeDecrement(s uint64) bool {
	if st.cells[s].Load()>>safeShift == 0 {
		return false
	}
	one := uint32(1) << safeShift
	now := st.cells[s].Add(-one) // fetch-sub of one safe move
	return now>>safeShift == 0
}

// Depth returns the cop-turn capture distance of s in half-moves, or -1.
func (st *StateTable) Depth(s uint64) int32 {
	if st.depth == nil {
		return -1
	}
	return st.depth[s]
}

// SetDepth records the capture distance of a newly claimed cop win. Called
// only by the claiming thread; later waves observe it through the wave barrier.
func (st *StateTable) SetDepth(s uint64, halfMoves int32) {
	if st.depth != nil {
		st.depth[s] = halfMoves
	}
}

// TracksDepth reports whether this table records capture distances.
func (st *StateTable) TracksDepth() bool {
	return st.depth != nil
}
