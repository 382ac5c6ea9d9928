package libcnr

import (
	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/pkg/errors"
)

// AdjacencyIndex is a flat contiguous neighbor table with a constant stride
// equal to the graph's max degree. Unused slots hold cnr.SentinelVtx, and a
// row is terminated by the first sentinel. The stride property matters:
// advancing a row pointer by the stride yields the next row without a
// multiply inside hot loops.
type AdjacencyIndex struct {
	vertexCount int
	maxDegree   int
	edges       []byte // row-major [N x maxDegree]
	degrees     []byte // open degree per vertex
}

// BuildAdjacencyIndex builds the index once from the oracle.
// Self-loops reported by the oracle are dropped; "stay" is the solver's concern.
func BuildAdjacencyIndex(g cnr.GraphOracle) (*AdjacencyIndex, error) {
	N := g.VertexCount()
	if N == 0 {
		return nil, cnr.ErrEmptyGraph
	}
	if N > cnr.MaxVertex {
		return nil, cnr.ErrGraphTooLarge
	}

	adj := &AdjacencyIndex{
		vertexCount: N,
		degrees:     make([]byte, N),
	}

	for i := 0; i < N; i++ {
		deg := 0
		for j := 0; j < N; j++ {
			if i != j && g.HasEdge(i, j) {
				deg++
			}
		}
		if deg > int(cnr.SentinelVtx)-1 {
			return nil, errors.Wrapf(cnr.ErrDegreeOverflow, "vertex %d has degree %d", i, deg)
		}
		adj.degrees[i] = byte(deg)
		if deg > adj.maxDegree {
			adj.maxDegree = deg
		}
	}

	adj.edges = make([]byte, N*adj.maxDegree)
	for i := range adj.edges {
		adj.edges[i] = cnr.SentinelVtx
	}

	for i := 0; i < N; i++ {
		offset := i * adj.maxDegree
		for j := 0; j < N; j++ {
			if i != j && g.HasEdge(i, j) {
				adj.edges[offset] = byte(j)
				offset++
			}
		}
	}

	return adj, nil
}

func (adj *AdjacencyIndex) VertexCount() int {
	return adj.vertexCount
}

// MaxDegree is the row stride of the table.
func (adj *AdjacencyIndex) MaxDegree() int {
	return adj.maxDegree
}

// Degree returns the open (no "stay") degree of v.
func (adj *AdjacencyIndex) Degree(v int) int {
	return int(adj.degrees[v])
}

// Row returns the neighbor row of v: at most MaxDegree entries, terminated by
// the first cnr.SentinelVtx (if any slots are unused).
func (adj *AdjacencyIndex) Row(v int) []byte {
	if adj.maxDegree == 0 {
		return nil
	}
	offset := v * adj.maxDegree
	return adj.edges[offset : offset+adj.maxDegree]
}

// Neighbors returns the neighbor list of v, sentinel excluded.
func (adj *AdjacencyIndex) Neighbors(v int) []byte {
	row := adj.Row(v)
	return row[:adj.degrees[v]]
}
