package libcnr

import (
	"os"
	"strings"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/pkg/errors"
)

// Graph is a general purpose container for undirected graphs, backed by a
// flat adjacency matrix. It implements cnr.GraphOracle.
type Graph struct {
	vertexCount int
	edgeCount   int
	edges       []bool // row-major [N x N]
}

func NewGraph(vertexCount int) (*Graph, error) {
	if vertexCount <= 0 {
		return nil, cnr.ErrEmptyGraph
	}
	if vertexCount > cnr.MaxVertex {
		return nil, cnr.ErrGraphTooLarge
	}
	return &Graph{
		vertexCount: vertexCount,
		edges:       make([]bool, vertexCount*vertexCount),
	}, nil
}

func (g *Graph) VertexCount() int {
	return g.vertexCount
}

func (g *Graph) EdgeCount() int {
	return g.edgeCount
}

func (g *Graph) HasEdge(u, v int) bool {
	if u == v {
		return false
	}
	return g.edges[u*g.vertexCount+v]
}

// AddEdge adds the undirected edge (u, v). Self-loops are rejected.
func (g *Graph) AddEdge(u, v int) error {
	if u < 0 || u >= g.vertexCount || v < 0 || v >= g.vertexCount {
		return cnr.ErrBadVertexID
	}
	if u == v {
		return cnr.ErrBadEdge
	}
	if !g.edges[u*g.vertexCount+v] {
		g.edges[u*g.vertexCount+v] = true
		g.edges[v*g.vertexCount+u] = true
		g.edgeCount++
	}
	return nil
}

// NewGraphFromMatrixText parses an adjacency matrix in text form: N lines of N
// characters each, '0' / '1', row i column j encoding edge (i,j). A line
// consisting of '-' terminates the matrix early. The matrix must be symmetric;
// diagonal entries are ignored.
func NewGraphFromMatrixText(text string) (*Graph, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r \t")
		if line == "-" {
			break
		}
		if len(line) > 0 {
			rows = append(rows, line)
		}
	}

	N := len(rows)
	g, err := NewGraph(N)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		if len(row) < N {
			return nil, errors.Wrapf(cnr.ErrBadMatrix, "row %d has %d columns, want %d", i, len(row), N)
		}
		for j := 0; j < N; j++ {
			switch row[j] {
			case '0':
			case '1':
				if i != j {
					g.edges[i*N+j] = true
				}
			default:
				return nil, errors.Wrapf(cnr.ErrBadMatrix, "row %d column %d: unexpected character %q", i, j, row[j])
			}
		}
	}

	// Symmetry check, counting each edge once
	for i := 0; i < N; i++ {
		for j := i + 1; j < N; j++ {
			if g.edges[i*N+j] != g.edges[j*N+i] {
				return nil, errors.Wrapf(cnr.ErrAsymmetric, "edge (%d,%d)", i, j)
			}
			if g.edges[i*N+j] {
				g.edgeCount++
			}
		}
	}

	return g, nil
}

// ReadGraphFile loads an adjacency matrix file.
func ReadGraphFile(pathname string) (*Graph, error) {
	buf, err := os.ReadFile(pathname)
	if err != nil {
		return nil, errors.Wrap(err, "reading graph file")
	}
	g, err := NewGraphFromMatrixText(string(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", pathname)
	}
	return g, nil
}

// Signature returns the canonical byte signature keying this graph in a
// solution catalog: the vertex count followed by the packed upper-triangle
// edge bitmap.
func (g *Graph) Signature() cnr.GraphSig {
	return SignatureOf(g)
}

// SignatureOf derives the catalog signature of any oracle.
func SignatureOf(g cnr.GraphOracle) cnr.GraphSig {
	N := g.VertexCount()
	sig := make(cnr.GraphSig, 1, 1+(N*(N-1)/2+7)/8)
	sig[0] = byte(N)

	acc := byte(0)
	nbits := 0
	for i := 0; i < N; i++ {
		for j := i + 1; j < N; j++ {
			acc <<= 1
			if g.HasEdge(i, j) {
				acc |= 1
			}
			nbits++
			if nbits == 8 {
				sig = append(sig, acc)
				acc, nbits = 0, 0
			}
		}
	}
	if nbits > 0 {
		sig = append(sig, acc<<(8-nbits))
	}
	return sig
}
