package libcnr_test

import (
	"strings"
	"testing"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

func TestTraceShape(t *testing.T) {
	sol := solve(t, exprPetersen, 3, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	trace := sol.Verdict.Trace

	if !trace.Captured() {
		t.Fatal("trace must end on a capture")
	}
	for i := range trace {
		step := &trace[i]
		if len(step.Cops) != 3 {
			t.Fatalf("step %d: %d cops", i, len(step.Cops))
		}
		if int(step.Robber) >= 10 {
			t.Fatalf("step %d: robber out of range", i)
		}
		last := i == len(trace)-1
		if last != (step.Label == cnr.TurnLabelCaptured) {
			t.Fatalf("step %d: label %q", i, step.Label)
		}
	}

	// The opening position is the witness against the worst robber start
	if cnr.CompareConfigs(trace[0].Cops, sol.Verdict.Witness) != 0 {
		t.Fatalf("trace opens at %v, witness is %v", trace[0].Cops, sol.Verdict.Witness)
	}

	// Cop moves alternate with robber moves
	for i := 0; i < len(trace)-1; i++ {
		want := cnr.TurnLabelCop
		if i%2 == 1 {
			want = cnr.TurnLabelRobber
		}
		if trace[i].Label != want {
			t.Fatalf("step %d: got %q, want %q", i, trace[i].Label, want)
		}
	}
}

// Along a minimax-optimal play the capture depth strictly decreases each
// full round.
func TestDepthMonotone(t *testing.T) {
	sol := solve(t, exprPetersen, 3, func(o *cnr.SolveOpts) { o.TrackDepth = true })
	trace := sol.Verdict.Trace

	prev := int(^uint(0) >> 1)
	for i := range trace {
		if trace[i].Label != cnr.TurnLabelCop {
			continue
		}
		d := sol.DepthAt(trace[i].Cops, int(trace[i].Robber))
		if d < 0 {
			t.Fatalf("step %d is not a cop win", i)
		}
		if d >= prev {
			t.Fatalf("depth did not decrease: %d -> %d", prev, d)
		}
		prev = d
	}

	if rounds := sol.DepthAt(sol.Verdict.Witness, int(trace[0].Robber)); rounds != sol.Verdict.Rounds {
		t.Fatalf("witness depth %d != verdict rounds %d", rounds, sol.Verdict.Rounds)
	}
}

func TestDumpFormats(t *testing.T) {
	sol := solve(t, exprP3, 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })

	var traceBuf strings.Builder
	if err := sol.WriteTrace(&traceBuf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(traceBuf.String(), "\n"), "\n")
	for _, line := range lines {
		if parts := strings.Split(line, "|"); len(parts) != 3 {
			t.Fatalf("bad trace line %q", line)
		}
	}
	if !strings.HasSuffix(lines[len(lines)-1], cnr.TurnLabelCaptured) {
		t.Fatalf("last line %q", lines[len(lines)-1])
	}

	var dpBuf strings.Builder
	if err := sol.WriteDPTable(&dpBuf); err != nil {
		t.Fatal(err)
	}
	dpLines := strings.Split(strings.TrimRight(dpBuf.String(), "\n"), "\n")
	if len(dpLines) != 9 { // 3 configs x 3 robber vertices
		t.Fatalf("dp table has %d lines", len(dpLines))
	}
	if dpLines[0] != "0|0|0" { // cop on 0, robber on 0: captured at depth 0
		t.Fatalf("dp line 0: %q", dpLines[0])
	}
}

func TestDepthAt(t *testing.T) {
	sol := solve(t, exprP3, 1, func(o *cnr.SolveOpts) { o.TrackDepth = true })

	if d := sol.DepthAt([]byte{1}, 1); d != 0 {
		t.Fatalf("capture depth: %d", d)
	}
	if d := sol.DepthAt([]byte{1}, 0); d != 1 {
		t.Fatalf("adjacent depth: %d", d)
	}
	if d := sol.DepthAt([]byte{9}, 0); d != -1 {
		t.Fatal("unknown config must report -1")
	}
}
