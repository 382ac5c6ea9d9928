package cnr_test

import (
	"testing"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

func TestMultisetCount(t *testing.T) {
	cases := []struct {
		n, k int
		want uint64
	}{
		{1, 1, 1},
		{4, 2, 10},
		{10, 3, 220},
		{255, 1, 255},
		{5, 0, 1},
	}
	for _, c := range cases {
		got, err := cnr.MultisetCount(c.n, c.k)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("C(%d+%d-1, %d): got %d, want %d", c.n, c.k, c.k, got, c.want)
		}
	}

	if _, err := cnr.MultisetCount(255, 200); err != cnr.ErrIndexOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestCompareConfigs(t *testing.T) {
	if cnr.CompareConfigs([]byte{0, 1}, []byte{0, 1}) != 0 {
		t.Fatal("equal compare")
	}
	if cnr.CompareConfigs([]byte{0, 1}, []byte{0, 2}) >= 0 {
		t.Fatal("less compare")
	}
	if cnr.CompareConfigs([]byte{2, 0}, []byte{1, 9}) <= 0 {
		t.Fatal("first byte must dominate")
	}
}

func TestFormatConfig(t *testing.T) {
	if s := cnr.FormatConfig([]byte{1, 2, 3}); s != "(1, 2, 3)" {
		t.Fatalf("got %q", s)
	}
	if s := cnr.FormatConfig(nil); s != "()" {
		t.Fatalf("got %q", s)
	}
}

func TestTraceFormatting(t *testing.T) {
	trace := cnr.PlayTrace{
		{Cops: []byte{1, 2}, Robber: 0, Label: cnr.TurnLabelCop},
		{Cops: []byte{0, 2}, Robber: 0, Label: cnr.TurnLabelCaptured},
	}
	want := "1,2|0|" + cnr.TurnLabelCop + "\n0,2|0|" + cnr.TurnLabelCaptured + "\n"
	if trace.String() != want {
		t.Fatalf("got %q", trace.String())
	}
	if !trace.Captured() {
		t.Fatal("captured")
	}
}
