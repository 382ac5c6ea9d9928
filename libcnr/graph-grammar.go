package libcnr

import (
	"github.com/alecthomas/participle/v2"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

// GraphExpr is a terse undirected edge-list notation used by tests and
// scripts: comma separated runs of vertices chained by '-', e.g.
// "0-1-2-3-0" is C4 and "0-1,1-2" is P3. A run of a single vertex
// declares an isolated vertex.
type GraphExpr struct {
	Runs []*EdgeRun `(@@ ("," @@)*)?`
}

type EdgeRun struct {
	StartVtx int64      `@Int`
	Hops     []*EdgeHop `@@*`
}

type EdgeHop struct {
	EndVtx int64 `"-" @Int`
}

var parseGraphExpr = participle.MustBuild[GraphExpr]()

// NewGraphFromString builds a Graph from a GraphExpr. The vertex count is
// one past the highest vertex id mentioned.
func NewGraphFromString(graphExpr string) (*Graph, error) {
	Xexpr, err := parseGraphExpr.ParseString("", graphExpr)
	if err != nil {
		return nil, err
	}

	maxVtx := int64(-1)
	tally := func(v int64) error {
		if v < 0 || v >= cnr.MaxVertex {
			return cnr.ErrBadVertexID
		}
		if v > maxVtx {
			maxVtx = v
		}
		return nil
	}

	for _, run := range Xexpr.Runs {
		if err := tally(run.StartVtx); err != nil {
			return nil, err
		}
		for _, hop := range run.Hops {
			if err := tally(hop.EndVtx); err != nil {
				return nil, err
			}
		}
	}
	if maxVtx < 0 {
		return nil, cnr.ErrEmptyGraph
	}

	g, err := NewGraph(int(maxVtx) + 1)
	if err != nil {
		return nil, err
	}

	for _, run := range Xexpr.Runs {
		onVtx := run.StartVtx
		for _, hop := range run.Hops {
			if err := g.AddEdge(int(onVtx), int(hop.EndVtx)); err != nil {
				return nil, err
			}
			onVtx = hop.EndVtx
		}
	}

	return g, nil
}
