package libcnr_test

import (
	"testing"

	"github.com/lindensheehy/CopsAndRobbers/libcnr"
)

func buildTransitions(t *testing.T, expr string, k int) (*libcnr.ConfigTable, *libcnr.TransitionTable, int) {
	t.Helper()
	g, err := libcnr.NewGraphFromString(expr)
	if err != nil {
		t.Fatal(err)
	}
	adj, err := libcnr.BuildAdjacencyIndex(g)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := libcnr.GenerateConfigs(g.VertexCount(), k)
	if err != nil {
		t.Fatal(err)
	}
	return ct, libcnr.BuildTransitions(ct, adj), g.VertexCount()
}

func TestTransitionsP3(t *testing.T) {
	ct, tt, N := buildTransitions(t, "0-1-2", 1)

	// One cop on the middle of P3 can stay or reach either end
	mid, _ := ct.Lookup([]byte{1})
	succ := tt.Successors(mid)
	if len(succ) != 3 {
		t.Fatalf("successors of {1}: %v", succ)
	}

	end, _ := ct.Lookup([]byte{0})
	if len(tt.Successors(end)) != 2 {
		t.Fatalf("successors of {0}: %v", tt.Successors(end))
	}

	// Offsets are pre-multiplied by N
	for cId := uint64(0); cId < ct.Count; cId++ {
		for _, tgt := range tt.Successors(cId) {
			if tgt%uint64(N) != 0 {
				t.Fatalf("target %d is not a multiple of N", tgt)
			}
			if tgt/uint64(N) >= ct.Count {
				t.Fatalf("target %d outside enumeration", tgt)
			}
		}
	}
}

func TestTransitionsSortedDeduped(t *testing.T) {
	ct, tt, _ := buildTransitions(t, "0-1-2-3-0", 2)

	for cId := uint64(0); cId < ct.Count; cId++ {
		succ := tt.Successors(cId)
		for i := 1; i < len(succ); i++ {
			if succ[i] <= succ[i-1] {
				t.Fatalf("config %d: successors not strictly increasing: %v", cId, succ)
			}
		}
	}
}

// Cops can reverse any move on an undirected graph, so the transition
// relation is its own inverse and backward BFS reads the forward table.
func TestTransitionsSelfInverse(t *testing.T) {
	ct, tt, N := buildTransitions(t, "0-1-2-3-0,0-2", 2)

	contains := func(cId, target uint64) bool {
		for _, tgt := range tt.Successors(cId) {
			if tgt/uint64(N) == target {
				return true
			}
		}
		return false
	}

	for a := uint64(0); a < ct.Count; a++ {
		for _, tgt := range tt.Successors(a) {
			b := tgt / uint64(N)
			if !contains(b, a) {
				t.Fatalf("%v -> %v but not back", ct.At(a), ct.At(b))
			}
		}
	}
}

func TestTransitionsContainStay(t *testing.T) {
	ct, tt, N := buildTransitions(t, "0-1-2", 2)

	for cId := uint64(0); cId < ct.Count; cId++ {
		found := false
		for _, tgt := range tt.Successors(cId) {
			if tgt/uint64(N) == cId {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("config %v cannot stay put", ct.At(cId))
		}
	}
}
