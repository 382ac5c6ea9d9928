package libcnr

import (
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/plan-systems/klog"
)

// teamMoves enumerates the Cartesian product of per-cop move options for one
// configuration: each cop may take an edge or stay. Tuples come out sorted;
// duplicates are the caller's concern. The buffers are sized once and reused
// across configurations, so the hot loops never allocate.
type teamMoves struct {
	k         int
	optStride int
	options   []byte // k rows of optStride move candidates
	optCount  []int
	odometer  []int
	move      []byte
	exhausted bool
}

func newTeamMoves(k, maxDegree int) *teamMoves {
	stride := maxDegree + 1 // neighbors plus "stay"
	return &teamMoves{
		k:         k,
		optStride: stride,
		options:   make([]byte, k*stride),
		optCount:  make([]int, k),
		odometer:  make([]int, k),
		move:      make([]byte, k),
	}
}

// reset points the enumerator at a configuration. Option 0 for every cop is
// "stay"; the rest are its neighbors.
func (tm *teamMoves) reset(cfg []byte, adj *AdjacencyIndex) {
	for i := 0; i < tm.k; i++ {
		u := cfg[i]
		row := tm.options[i*tm.optStride:]
		row[0] = u
		count := 1
		for _, v := range adj.Neighbors(int(u)) {
			row[count] = v
			count++
		}
		tm.optCount[i] = count
		tm.odometer[i] = 0
	}
	tm.exhausted = false
}

// next returns the next sorted move tuple, or nil when the product is
// exhausted. The returned slice is reused by the following call.
func (tm *teamMoves) next() []byte {
	if tm.exhausted {
		return nil
	}
	if tm.k == 0 {
		// The empty team has exactly one (empty) move.
		tm.exhausted = true
		return tm.move
	}

	for i := 0; i < tm.k; i++ {
		tm.move[i] = tm.options[i*tm.optStride+tm.odometer[i]]
	}
	sortConfig(tm.move)

	// Advance the odometer
	p := tm.k - 1
	for p >= 0 {
		tm.odometer[p]++
		if tm.odometer[p] < tm.optCount[p] {
			break
		}
		tm.odometer[p] = 0
		p--
	}
	if p < 0 {
		tm.exhausted = true
	}

	return tm.move
}

// sortConfig re-sorts a move tuple into canonical multiset order.
// Insertion sort: k is tiny and usually nearly sorted already.
func sortConfig(b []byte) {
	for i := 1; i < len(b); i++ {
		v := b[i]
		j := i - 1
		for j >= 0 && b[j] > v {
			b[j+1] = b[j]
			j--
		}
		b[j+1] = v
	}
}

// TransitionTable is the materialized (CSR) team-move relation: for each
// configuration id, the sorted deduplicated set of successor configuration
// ids, stored pre-multiplied by N so that successors[i] + r is directly the
// successor state id for robber vertex r.
//
// Because every cop can reverse its move on an undirected graph (and "stay"
// reverses itself), the relation is its own inverse: the same table serves
// forward and backward traversal. No reverse CSR exists anywhere.
type TransitionTable struct {
	N       uint64
	heads   []uint64 // len Count+1; [heads[c], heads[c+1]) indexes targets
	targets []uint64
}

// BuildTransitions materializes the CSR table. The per-configuration working
// set is an ordered tree, so each row comes out sorted and deduplicated in a
// single insert pass.
func BuildTransitions(ct *ConfigTable, adj *AdjacencyIndex) *TransitionTable {
	M := ct.Count
	N := uint64(ct.N)

	tt := &TransitionTable{
		N:       N,
		heads:   make([]uint64, M+1),
		targets: make([]uint64, 0, M*4),
	}

	workingSet := redblacktree.Tree{
		Comparator: func(a, b interface{}) int {
			a0, b0 := a.(uint64), b.(uint64)
			if a0 < b0 {
				return -1
			} else if a0 > b0 {
				return 1
			}
			return 0
		},
	}

	tm := newTeamMoves(ct.K, adj.MaxDegree())

	for cId := uint64(0); cId < M; cId++ {
		workingSet.Clear()
		tm.reset(ct.At(cId), adj)

		for move := tm.next(); move != nil; move = tm.next() {
			nextId := ct.MustLookup(move)
			workingSet.Put(nextId*N, nil)
		}

		itr := workingSet.Iterator()
		for itr.Next() {
			tt.targets = append(tt.targets, itr.Key().(uint64))
		}
		tt.heads[cId+1] = uint64(len(tt.targets))
	}

	klog.V(2).Infof("materialized %d team transitions over %d configurations", len(tt.targets), M)
	return tt
}

// Successors returns the pre-multiplied successor offsets of a configuration.
func (tt *TransitionTable) Successors(cId uint64) []uint64 {
	return tt.targets[tt.heads[cId]:tt.heads[cId+1]]
}
