package libcnr_test

import (
	"testing"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/lindensheehy/CopsAndRobbers/libcnr"
)

const (
	exprP3       = "0-1-2"
	exprP4       = "0-1-2-3"
	exprC4       = "0-1-2-3-0"
	exprK5       = "0-1-2-3-4-0,0-2,0-3,1-3,1-4,2-4"
	exprPetersen = "0-1-2-3-4-0,0-5,1-6,2-7,3-8,4-9,5-7-9-6-8-5"

	// Outer pentagon, spokes, ten-cycle middle ring, inner pentagon.
	exprDodecahedron = "0-1-2-3-4-0," +
		"0-5,1-6,2-7,3-8,4-9," +
		"5-10-6-11-7-12-8-13-9-14-5," +
		"10-15,11-16,12-17,13-18,14-19," +
		"15-16-17-18-19-15"
)

func mustGraph(t *testing.T, expr string) *libcnr.Graph {
	t.Helper()
	g, err := libcnr.NewGraphFromString(expr)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func solve(t *testing.T, expr string, k int, mutate func(*cnr.SolveOpts)) *libcnr.Solution {
	t.Helper()
	opts := cnr.DefaultSolveOpts
	opts.Cops = k
	if mutate != nil {
		mutate(&opts)
	}
	sol, err := libcnr.Solve(mustGraph(t, expr), opts)
	if err != nil {
		t.Fatal(err)
	}
	return sol
}

func TestScenarios(t *testing.T) {
	cases := []struct {
		name string
		expr string
		k    int
		want cnr.Decision
	}{
		{"P3_1cop", exprP3, 1, cnr.WIN},
		{"C4_1cop", exprC4, 1, cnr.LOSS},
		{"C4_2cops", exprC4, 2, cnr.WIN},
		{"Petersen_2cops", exprPetersen, 2, cnr.LOSS},
		{"Petersen_3cops", exprPetersen, 3, cnr.WIN},
		{"K5_1cop", exprK5, 1, cnr.WIN},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sol := solve(t, c.expr, c.k, nil)
			if sol.Verdict.Decision != c.want {
				t.Fatalf("got %v, want %v", sol.Verdict.Decision, c.want)
			}
			if c.want == cnr.WIN && len(sol.Verdict.Witness) != c.k {
				t.Fatalf("witness %v has wrong size", sol.Verdict.Witness)
			}
			if c.want == cnr.LOSS && sol.Verdict.Witness != nil {
				t.Fatal("LOSS must not carry a witness")
			}
		})
	}
}

func TestDodecahedron(t *testing.T) {
	g := mustGraph(t, exprDodecahedron)
	if g.VertexCount() != 20 || g.EdgeCount() != 30 {
		t.Fatalf("bad dodecahedron: %d verts, %d edges", g.VertexCount(), g.EdgeCount())
	}
	sol := solve(t, exprDodecahedron, 3, nil)
	if sol.Verdict.Decision != cnr.WIN {
		t.Fatal("3 cops must win the dodecahedron")
	}
}

func TestWitnessSelection(t *testing.T) {
	// Without depth tracking: first universal win in configuration-lex order.
	sol := solve(t, exprP3, 1, nil)
	if sol.Verdict.Witness[0] != 0 {
		t.Fatalf("lex witness: got %v", sol.Verdict.Witness)
	}
	if sol.Verdict.Rounds != -1 {
		t.Fatal("rounds must be -1 when depth is untracked")
	}

	// With depth tracking: the min worst-case witness, the middle of P3.
	sol = solve(t, exprP3, 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	if sol.Verdict.Witness[0] != 1 {
		t.Fatalf("min-depth witness: got %v", sol.Verdict.Witness)
	}
	if sol.Verdict.Rounds != 1 {
		t.Fatalf("P3 capture rounds: got %d", sol.Verdict.Rounds)
	}
}

func TestK5Depth(t *testing.T) {
	sol := solve(t, exprK5, 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	if sol.Verdict.Decision != cnr.WIN || sol.Verdict.Rounds != 1 {
		t.Fatalf("K5: %v in %d rounds", sol.Verdict.Decision, sol.Verdict.Rounds)
	}
}

func TestSingleVertex(t *testing.T) {
	sol := solve(t, "0", 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	if sol.Verdict.Decision != cnr.WIN || sol.Verdict.Rounds != 0 {
		t.Fatalf("single vertex: %v in %d rounds", sol.Verdict.Decision, sol.Verdict.Rounds)
	}
	if !sol.Verdict.Trace.Captured() || len(sol.Verdict.Trace) != 1 {
		t.Fatalf("trace: %v", sol.Verdict.Trace)
	}
}

func TestZeroCops(t *testing.T) {
	sol := solve(t, exprP3, 0, nil)
	if sol.Verdict.Decision != cnr.LOSS {
		t.Fatal("zero cops cannot win a nonempty graph")
	}
}

func TestTwoComponents(t *testing.T) {
	sol := solve(t, "0-1,2-3", 1, nil)
	if sol.Verdict.Decision != cnr.LOSS {
		t.Fatal("one cop cannot cover two components")
	}
	sol = solve(t, "0-1,2-3", 2, nil)
	if sol.Verdict.Decision != cnr.WIN {
		t.Fatal("one cop per component wins")
	}
}

func TestIsolatedVertex(t *testing.T) {
	sol := solve(t, "0-1-2, 3", 1, nil)
	if sol.Verdict.Decision != cnr.LOSS {
		t.Fatal("the isolated vertex is unreachable for a single cop")
	}
	sol = solve(t, "0-1-2, 3", 2, nil)
	if sol.Verdict.Decision != cnr.WIN {
		t.Fatal("two cops must win")
	}
	if !cnr.ConfigContains(sol.Verdict.Witness, 3) {
		t.Fatalf("witness %v must post a cop on the isolated vertex", sol.Verdict.Witness)
	}
}

func sameTables(a, b *libcnr.Solution, N int) bool {
	if a.NumConfigs() != b.NumConfigs() {
		return false
	}
	for cId := uint64(0); cId < a.NumConfigs(); cId++ {
		for r := 0; r < N; r++ {
			if a.CopWin(cId, r) != b.CopWin(cId, r) || a.RobberWin(cId, r) != b.RobberWin(cId, r) {
				return false
			}
		}
	}
	return true
}

// Identical inputs must yield bit-identical tables and the same verdict
// regardless of worker count.
func TestDeterminism(t *testing.T) {
	base := solve(t, exprPetersen, 2, func(o *cnr.SolveOpts) {
		o.TrackDepth = true
		o.NumWorkers = 1
	})
	for _, workers := range []int{2, 8} {
		other := solve(t, exprPetersen, 2, func(o *cnr.SolveOpts) {
			o.TrackDepth = true
			o.NumWorkers = workers
		})
		if !sameTables(base, other, 10) {
			t.Fatalf("tables diverge at %d workers", workers)
		}
		if base.Verdict.Decision != other.Verdict.Decision {
			t.Fatalf("verdicts diverge at %d workers", workers)
		}
	}
}

// The frontier engine and the reference scan must agree on every state flag.
func TestScanEquivalence(t *testing.T) {
	cases := []struct {
		expr string
		k    int
	}{
		{exprP3, 1},
		{exprC4, 1},
		{exprC4, 2},
		{exprPetersen, 2},
		{"0-1,2-3", 2},
	}
	for _, c := range cases {
		frontier := solve(t, c.expr, c.k, func(o *cnr.SolveOpts) { o.TrackDepth = true })
		scan := solve(t, c.expr, c.k, func(o *cnr.SolveOpts) {
			o.TrackDepth = true
			o.Strategy = cnr.StrategyScan
		})

		N := mustGraph(t, c.expr).VertexCount()
		if !sameTables(frontier, scan, N) {
			t.Fatalf("%s k=%d: scan and frontier disagree", c.expr, c.k)
		}
		if frontier.Verdict.Decision != scan.Verdict.Decision ||
			frontier.Verdict.Rounds != scan.Verdict.Rounds {
			t.Fatalf("%s k=%d: verdicts disagree", c.expr, c.k)
		}
		for cId := uint64(0); cId < frontier.NumConfigs(); cId++ {
			for r := 0; r < N; r++ {
				a := frontier.DepthAt(frontier.ConfigAt(cId), r)
				b := scan.DepthAt(scan.ConfigAt(cId), r)
				if a != b {
					t.Fatalf("%s k=%d: depth(%v, %d): frontier %d, scan %d",
						c.expr, c.k, frontier.ConfigAt(cId), r, a, b)
				}
			}
		}
	}
}

func TestOnTheFlyEquivalence(t *testing.T) {
	for _, c := range []struct {
		expr string
		k    int
	}{
		{exprC4, 2},
		{exprPetersen, 2},
	} {
		csr := solve(t, c.expr, c.k, nil)
		otf := solve(t, c.expr, c.k, func(o *cnr.SolveOpts) { o.Transitions = cnr.TransOnTheFly })
		N := mustGraph(t, c.expr).VertexCount()
		if !sameTables(csr, otf, N) {
			t.Fatalf("%s k=%d: on-the-fly diverges from CSR", c.expr, c.k)
		}
	}
}

// Spot-check the retrograde invariants on a solved LOSS instance.
func TestInvariants(t *testing.T) {
	g := mustGraph(t, exprPetersen)
	sol := solve(t, exprPetersen, 2, nil)

	adj, err := libcnr.BuildAdjacencyIndex(g)
	if err != nil {
		t.Fatal(err)
	}
	ct, err := libcnr.GenerateConfigs(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	tt := libcnr.BuildTransitions(ct, adj)

	for cId := uint64(0); cId < sol.NumConfigs(); cId++ {
		cfg := sol.ConfigAt(cId)
		for r := 0; r < 10; r++ {
			caught := cnr.ConfigContains(cfg, byte(r))

			// P2: capture states are terminal wins for both phases
			if caught && (!sol.CopWin(cId, r) || !sol.RobberWin(cId, r)) {
				t.Fatalf("capture state (%v, %d) not terminal", cfg, r)
			}

			// P3: robber loses iff every move in N+(r) is a cop win
			allCovered := sol.CopWin(cId, r)
			for _, v := range adj.Neighbors(r) {
				if !sol.CopWin(cId, int(v)) {
					allCovered = false
				}
			}
			if sol.RobberWin(cId, r) != allCovered {
				t.Fatalf("P3 violated at (%v, %d)", cfg, r)
			}

			// P4: cops win iff caught or some team move reaches a robber loss
			someWin := caught
			for _, tgt := range tt.Successors(cId) {
				if sol.RobberWin(tgt/10, r) {
					someWin = true
				}
			}
			if sol.CopWin(cId, r) != someWin {
				t.Fatalf("P4 violated at (%v, %d)", cfg, r)
			}
		}
	}
}

func TestBoundedRounds(t *testing.T) {
	// P4's best witness needs 2 rounds worst case
	sol := solve(t, exprP4, 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	if sol.Verdict.Decision != cnr.WIN || sol.Verdict.Rounds != 2 {
		t.Fatalf("P4: %v in %d rounds", sol.Verdict.Decision, sol.Verdict.Rounds)
	}

	sol = solve(t, exprP4, 1, func(o *cnr.SolveOpts) { o.MaxRounds = 1 })
	if sol.Verdict.Decision != cnr.LOSS {
		t.Fatal("a 1-round limit must turn P4 into a LOSS")
	}
	sol = solve(t, exprP4, 1, func(o *cnr.SolveOpts) { o.MaxRounds = 2 })
	if sol.Verdict.Decision != cnr.WIN {
		t.Fatal("a 2-round limit suffices on P4")
	}
}

func TestNoStay(t *testing.T) {
	sol := solve(t, exprP3, 1, func(o *cnr.SolveOpts) { o.RobberMayStay = false })
	if sol.Verdict.Decision != cnr.WIN {
		t.Fatal("P3 stays a win without robber stay")
	}
	sol = solve(t, exprC4, 1, func(o *cnr.SolveOpts) { o.RobberMayStay = false })
	if sol.Verdict.Decision != cnr.LOSS {
		t.Fatal("C4 stays a loss without robber stay")
	}
}
