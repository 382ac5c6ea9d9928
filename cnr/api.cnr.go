package cnr

const (

	// MaxVertex is the max number of vertices in a solvable graph.
	// Valid vertex ids are 0..MaxVertex-1, so a vertex always fits in one byte
	// while SentinelVtx stays free to terminate adjacency rows.
	MaxVertex = 255

	// MaxCops is the max size of a cop configuration (one byte per cop).
	MaxCops = 255

	// SentinelVtx terminates a row of the adjacency index.
	SentinelVtx = byte(255)

	// MaxPackedDegree is the largest closed-neighborhood size (neighbors plus "stay")
	// that fits a 7-bit safe-move counter in a byte-packed state cell. The state
	// table here uses 32-bit cells, so this limit does not bind there.
	MaxPackedDegree = 127
)

// Vtx is a vertex id in [0, VertexCount).
type Vtx = byte

// GraphOracle is the abstract immutable graph the solver consumes:
// a vertex count and a symmetric edge predicate.
// Self-loops reported by the oracle are ignored; "stay" is applied by the solver.
type GraphOracle interface {
	VertexCount() int
	HasEdge(u, v int) bool
}

// Decision is the outcome of a solve: can k cops guarantee capture from some
// start configuration against every robber start?
type Decision int32

const (
	LOSS Decision = iota
	WIN
)

func (d Decision) String() string {
	if d == WIN {
		return "WIN"
	}
	return "LOSS"
}

// TransitionMode selects how team-move successor sets are obtained.
type TransitionMode int32

const (

	// TransCSR materializes all team transitions up front into a flat CSR table.
	// Fastest, but the table commonly weighs several times M·N for k=3.
	TransCSR TransitionMode = iota

	// TransOnTheFly enumerates team moves per query during the retrograde loop.
	// Cuts peak memory by an order of magnitude at ~10x the time on dense graphs.
	TransOnTheFly
)

// Strategy selects the retrograde engine.
type Strategy int32

const (

	// StrategyFrontier is the production engine: a level-synchronous wavefront
	// BFS backwards from captured states.
	StrategyFrontier Strategy = iota

	// StrategyScan is the naive full-table fixed-point iteration.
	// Orders of magnitude slower; kept as the correctness oracle for tests.
	StrategyScan
)

// SolveOpts parameterizes a solve.
type SolveOpts struct {
	Cops          int            // number of cops k (0..MaxCops)
	TrackDepth    bool           // record capture depth and enable witness trace extraction
	RobberMayStay bool           // robber may pass its turn ("stay"); cops always may
	MaxRounds     int            // bounded-rounds variant: LOSS if capture needs more rounds (0 = unbounded)
	Transitions   TransitionMode // CSR vs on-the-fly
	Strategy      Strategy       // frontier vs reference scan
	NumWorkers    int            // worker threads for the frontier engine (0 = hardware parallelism, fallback 8)
}

// DefaultSolveOpts is the baseline configuration for Solve().
var DefaultSolveOpts = SolveOpts{
	RobberMayStay: true,
}

// Turn labels used in play traces and trace dumps.
const (
	TurnLabelCop      = "Cop's Turn"
	TurnLabelRobber   = "Robber's Turn"
	TurnLabelCaptured = "Game Over - Captured!"
)

// Verdict is the structured result of a solve.
type Verdict struct {
	Decision Decision
	Verts    int    // vertex count of the solved graph
	Cops     int    // k
	Witness  []byte // universally winning start configuration (sorted k-tuple); nil on LOSS
	Rounds   int    // worst-case capture rounds from Witness; -1 when depth was not tracked
	Trace    PlayTrace
}

// GraphSig is a canonical byte signature of a graph: the vertex count followed
// by the row-major upper-triangle edge bitmap. Two graphs have equal signatures
// iff they are the same labeled graph, which keys the solution catalog.
type GraphSig []byte

// OnSolutionHit is a callback channel used to return catalog solutions meeting
// selection criteria. Ownership of each Verdict travels through the channel.
type OnSolutionHit chan<- *Verdict

// SolutionSelector bounds a catalog Select scan.
type SolutionSelector struct {
	MinVerts byte
	MaxVerts byte
	MinCops  byte
	MaxCops  byte
	WinsOnly bool
}

// DefaultSolutionSelector selects every cached solution.
var DefaultSolutionSelector = SolutionSelector{
	MaxVerts: MaxVertex,
	MaxCops:  MaxCops,
}

// CatalogOpts specifies params for opening a solution catalog.
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
}

// SolutionCatalog wraps a database of solved games.
type SolutionCatalog interface {

	// TryAddSolution caches the given verdict for the given graph signature.
	// If true is returned, no solution for (sig, v.Cops) existed and v was added.
	TryAddSolution(sig GraphSig, v *Verdict) bool

	// LookupSolution returns the cached verdict for (sig, cops), if present.
	LookupSolution(sig GraphSig, cops int) (*Verdict, bool)

	// NumSolutions returns the number of cached solutions for a given vertex count.
	// An out of bounds vertex count returns 0.
	NumSolutions(forVtxCount byte) int64

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// Select fires onHit with each cached solution that meets the selection criteria.
	Select(sel SolutionSelector, onHit OnSolutionHit)

	Close() error
}

// CatalogContext is a container for open / active SolutionCatalog instances.
type CatalogContext interface {

	// Attaches the given catalog to this context.
	AttachCatalog(cat SolutionCatalog)

	// Detaches the given catalog from this context.
	DetachCatalog(cat SolutionCatalog)

	// Signals all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open catalogs have been closed.
	Done() <-chan struct{}
}
