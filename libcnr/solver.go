package libcnr

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/plan-systems/klog"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

// Frontier words carry a turn tag in the high bit: set for robber-turn
// entries, clear for cop-turn entries. The remaining bits hold the state id.
const (
	robberTurnBit = uint64(1) << 63
	stateIdMask   = robberTurnBit - 1

	// batchSize is how many frontier entries a worker claims per grab of the
	// shared cursor. Small enough to balance uneven per-entry work, large
	// enough that the cursor is not contended.
	batchSize = 4096
)

// Solution is a fully solved game: the verdict plus the read-only state
// tables it was derived from, kept for DP dumps, depth queries and replay.
type Solution struct {
	Verdict cnr.Verdict

	opts    cnr.SolveOpts
	N       int
	adj     *AdjacencyIndex
	configs *ConfigTable
	trans   *TransitionTable // nil in on-the-fly mode
	states  *StateTable
}

// Solve decides whether opts.Cops cops can guarantee capture on g under
// perfect play, and if so reports a universally winning start configuration
// (plus capture depth and a minimax trace when opts.TrackDepth is set).
//
// The solver runs to completion; callers needing bounded execution wrap it.
func Solve(g cnr.GraphOracle, opts cnr.SolveOpts) (*Solution, error) {
	if opts.MaxRounds > 0 {
		// The bound is applied to the witness scan, which needs depths.
		opts.TrackDepth = true
	}

	adj, err := BuildAdjacencyIndex(g)
	if err != nil {
		return nil, err
	}

	configs, err := GenerateConfigs(adj.VertexCount(), opts.Cops)
	if err != nil {
		return nil, err
	}

	s := &Solution{
		opts:    opts,
		N:       adj.VertexCount(),
		adj:     adj,
		configs: configs,
	}

	if opts.Transitions == cnr.TransCSR {
		s.trans = BuildTransitions(configs, adj)
	}

	s.states = NewStateTable(configs.Count*uint64(s.N), opts.TrackDepth)

	frontier := s.initCaptures()

	switch opts.Strategy {
	case cnr.StrategyScan:
		s.runScan()
	default:
		s.runFrontier(frontier)
	}

	s.scanVerdict()
	return s, nil
}

// NumConfigs returns the number of enumerated cop configurations.
func (s *Solution) NumConfigs() uint64 {
	return s.configs.Count
}

// ConfigAt returns the sorted k-tuple with the given configuration id.
func (s *Solution) ConfigAt(cId uint64) []byte {
	return s.configs.At(cId)
}

// CopWin reports whether the cops force capture from (cId, r) on their turn.
func (s *Solution) CopWin(cId uint64, r int) bool {
	return s.states.CopWin(cId*uint64(s.N) + uint64(r))
}

// RobberWin reports whether the robber has no safe move at (cId, r).
func (s *Solution) RobberWin(cId uint64, r int) bool {
	return s.states.RobberWin(cId*uint64(s.N) + uint64(r))
}

// SafeCount returns the number of robber moves at (cId, r) not yet known to
// be cop wins.
func (s *Solution) SafeCount(cId uint64, r int) uint32 {
	return s.states.SafeCount(cId*uint64(s.N) + uint64(r))
}

// closedDegree is deg⁺(r): neighbors plus "stay" when the robber may stay.
func (s *Solution) closedDegree(r int) uint32 {
	deg := uint32(s.adj.Degree(r))
	if s.opts.RobberMayStay {
		deg++
	}
	return deg
}

// initCaptures seeds every state where the robber is already caught and
// returns the initial frontier (both turn phases of each capture).
func (s *Solution) initCaptures() []uint64 {
	N := uint64(s.N)
	frontier := make([]uint64, 0, 2*s.configs.Count)

	initialWins := 0
	for cId := uint64(0); cId < s.configs.Count; cId++ {
		cfg := s.configs.At(cId)
		base := cId * N

		for r := 0; r < s.N; r++ {
			stateId := base + uint64(r)

			if cnr.ConfigContains(cfg, byte(r)) {
				s.states.InitCapture(stateId)
				frontier = append(frontier, stateId)
				frontier = append(frontier, stateId|robberTurnBit)
				initialWins++
				continue
			}

			deg := s.closedDegree(r)
			s.states.InitSafeCount(stateId, deg)
			if deg == 0 {
				// A trapped robber with no legal move loses on its turn.
				frontier = append(frontier, stateId|robberTurnBit)
			}
		}
	}

	klog.V(2).Infof("initialized %d capture states", initialWins)
	return frontier
}

func (s *Solution) numWorkers() int {
	T := s.opts.NumWorkers
	if T <= 0 {
		T = runtime.NumCPU()
	}
	if T <= 0 {
		T = 8
	}
	return T
}

// runFrontier is the production retrograde engine: a level-synchronous
// wavefront BFS backwards from the capture states. Each wave forks workers
// that drain the current frontier in dynamically dispensed batches, claim
// newly decided states through the two atomic primitives, and collect their
// claims into local next-frontiers that are merged at the wave barrier.
func (s *Solution) runFrontier(frontier []uint64) {
	T := s.numWorkers()
	wave := int32(0)

	for len(frontier) > 0 {
		wave++
		frontierSize := uint64(len(frontier))
		klog.V(2).Infof("wave %d: %d frontier states", wave, frontierSize)

		localNext := make([][]uint64, T)
		var cursor atomic.Uint64
		var wg sync.WaitGroup

		for tId := 0; tId < T; tId++ {
			wg.Add(1)
			go func(tId int) {
				defer wg.Done()

				local := make([]uint64, 0, frontierSize/uint64(T)+batchSize)
				tm := newTeamMoves(s.configs.K, s.adj.MaxDegree())

				for {
					start := cursor.Add(batchSize) - batchSize
					if start >= frontierSize {
						break
					}
					end := start + batchSize
					if end > frontierSize {
						end = frontierSize
					}

					for _, packed := range frontier[start:end] {
						if packed&robberTurnBit != 0 {
							local = s.expandRobberTurn(packed&stateIdMask, wave, tm, local)
						} else {
							local = s.expandCopTurn(packed, local)
						}
					}
				}

				localNext[tId] = local
			}(tId)
		}
		wg.Wait()

		// Parallel merge: exact offsets per worker, then concurrent copies.
		offsets := make([]uint64, T)
		total := uint64(0)
		for i := 0; i < T; i++ {
			offsets[i] = total
			total += uint64(len(localNext[i]))
		}

		next := make([]uint64, total)
		for tId := 0; tId < T; tId++ {
			wg.Add(1)
			go func(tId int) {
				defer wg.Done()
				copy(next[offsets[tId]:], localNext[tId])
			}(tId)
		}
		wg.Wait()

		frontier = next
	}

	klog.V(2).Infof("fixed point reached after %d waves", wave)
}

// expandRobberTurn handles a state whose robber-turn side is newly lost for
// the robber: every cop-turn predecessor can move into it. Team moves reverse
// themselves on an undirected graph, so predecessors are read straight off
// the forward transition relation.
func (s *Solution) expandRobberTurn(stateId uint64, wave int32, tm *teamMoves, local []uint64) []uint64 {
	N := uint64(s.N)
	cId := stateId / N
	r := stateId % N

	if s.trans != nil {
		for _, tgt := range s.trans.Successors(cId) {
			prevId := tgt + r // tgt is pre-multiplied by N
			if s.states.ClaimCopWin(prevId) {
				s.states.SetDepth(prevId, wave)
				local = append(local, prevId)
			}
		}
		return local
	}

	tm.reset(s.configs.At(cId), s.adj)
	for move := tm.next(); move != nil; move = tm.next() {
		prevId := s.configs.MustLookup(move)*N + r
		if s.states.ClaimCopWin(prevId) {
			s.states.SetDepth(prevId, wave)
			local = append(local, prevId)
		}
	}
	return local
}

// expandCopTurn handles a state whose cop-turn side is newly winning: every
// robber position that could have moved here has one fewer safe move. The
// robber position whose last safe move this was flips to a robber-turn loss.
func (s *Solution) expandCopTurn(stateId uint64, local []uint64) []uint64 {
	N := uint64(s.N)
	base := (stateId / N) * N
	r := int(stateId % N)

	if s.opts.RobberMayStay {
		if s.states.ClaimSafeDecrement(stateId) {
			local = append(local, stateId|robberTurnBit)
		}
	}
	for _, rPrev := range s.adj.Neighbors(r) {
		prevId := base + uint64(rPrev)
		if s.states.ClaimSafeDecrement(prevId) {
			local = append(local, prevId|robberTurnBit)
		}
	}
	return local
}

// scanVerdict picks the winning start configuration, if any. Without depth
// tracking the first universal win in configuration-lex order is reported;
// with depth tracking the witness minimizing the worst-case capture rounds
// wins, earliest id breaking ties, and the minimax trace is reconstructed.
func (s *Solution) scanVerdict() {
	v := &s.Verdict
	v.Decision = cnr.LOSS
	v.Verts = s.N
	v.Cops = s.opts.Cops
	v.Rounds = -1

	N := uint64(s.N)
	bestCId := int64(-1)
	bestWorst := int32(1) << 30

	for cId := uint64(0); cId < s.configs.Count; cId++ {
		base := cId * N
		universal := true
		worst := int32(0)

		for r := uint64(0); r < N; r++ {
			if !s.states.CopWin(base + r) {
				universal = false
				break
			}
			if d := s.states.Depth(base + r); d > worst {
				worst = d
			}
		}
		if !universal {
			continue
		}

		if !s.states.TracksDepth() {
			bestCId = int64(cId)
			break
		}
		if worst < bestWorst {
			bestWorst = worst
			bestCId = int64(cId)
		}
	}

	if bestCId < 0 {
		return
	}

	rounds := -1
	if s.states.TracksDepth() {
		rounds = int(bestWorst+1) / 2
		if s.opts.MaxRounds > 0 && rounds > s.opts.MaxRounds {
			klog.V(1).Infof("capture needs %d rounds, over the %d round limit", rounds, s.opts.MaxRounds)
			return
		}
	}

	v.Decision = cnr.WIN
	v.Witness = append([]byte{}, s.configs.At(uint64(bestCId))...)
	v.Rounds = rounds
	if s.states.TracksDepth() {
		v.Trace = s.extractTrace(uint64(bestCId))
	}
}
