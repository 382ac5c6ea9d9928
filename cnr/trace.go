package cnr

import (
	"fmt"
	"io"
	"strings"
)

// TraceStep is one half-move of a minimax-optimal play.
type TraceStep struct {
	Cops   []byte // cop positions before the move (sorted k-tuple)
	Robber byte
	Label  string // TurnLabelCop, TurnLabelRobber, or TurnLabelCaptured
}

// PlayTrace is a turn-by-turn record of a perfect game, ending on a capture.
type PlayTrace []TraceStep

// AppendLine appends this step in the trace dump line format: "c1,c2,...,ck|r|label".
func (step *TraceStep) AppendLine(out []byte) []byte {
	for i, c := range step.Cops {
		if i > 0 {
			out = append(out, ',')
		}
		out = fmt.Appendf(out, "%d", c)
	}
	out = fmt.Appendf(out, "|%d|%s\n", step.Robber, step.Label)
	return out
}

// WriteTo writes the trace one line per half-move.
func (trace PlayTrace) WriteTo(w io.Writer) (int64, error) {
	var scrap [64]byte
	total := int64(0)
	for i := range trace {
		line := trace[i].AppendLine(scrap[:0])
		n, err := w.Write(line)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (trace PlayTrace) String() string {
	var b strings.Builder
	trace.WriteTo(&b)
	return b.String()
}

// Captured reports whether the trace ends on a capture step.
func (trace PlayTrace) Captured() bool {
	return len(trace) > 0 && trace[len(trace)-1].Label == TurnLabelCaptured
}
