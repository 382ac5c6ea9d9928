package cnr

import "errors"

// Errors
var (
	ErrEmptyGraph      = errors.New("graph has no vertices")
	ErrGraphTooLarge   = errors.New("graph exceeds max vertex count")
	ErrTooManyCops     = errors.New("cop count exceeds max")
	ErrDegreeOverflow  = errors.New("vertex degree exceeds adjacency cell range")
	ErrIndexOverflow   = errors.New("state space exceeds platform index range")
	ErrBadMatrix       = errors.New("bad adjacency matrix text")
	ErrAsymmetric      = errors.New("adjacency matrix is not symmetric")
	ErrBadVertexID     = errors.New("bad vertex ID")
	ErrBadEdge         = errors.New("bad graph edge")
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrReadOnly        = errors.New("catalog is in read-only mode")
)
