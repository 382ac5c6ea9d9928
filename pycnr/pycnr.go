package pycnr

import (
	"os"

	"github.com/go-python/gpython/py"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/lindensheehy/CopsAndRobbers/libcnr"
	"github.com/lindensheehy/CopsAndRobbers/libcnr/catalog"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyGraphType     = py.NewType("Graph", "an undirected graph to solve pursuit games on")
	pySolutionType  = py.NewType("Solution", "a solved cops-and-robbers game")
	pyCatalogType   = py.NewType("Catalog", "cnr.SolutionCatalog")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyGraph struct {
	*libcnr.Graph
}

func (g pyGraph) Type() *py.Type {
	return pyGraphType
}

func getGraphFromObj(obj py.Object) (pyGraph, error) {
	g, ok := obj.(pyGraph)
	if !ok {
		return pyGraph{}, py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
	}
	return g, nil
}

// Arg 1 (str): pathname of an adjacency matrix file
func py_LoadGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}

	g, err := libcnr.ReadGraphFile(pathname)
	if err != nil {
		return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
	}
	return py.Object(pyGraph{g}), nil
}

// Arg 1 (str): a graph expression, e.g. "0-1-2-3-0"
func py_GraphFromExpr(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	err := py.LoadTuple(args, []interface{}{&expr})
	if err != nil {
		return nil, err
	}

	g, err := libcnr.NewGraphFromString(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyGraph{g}), nil
}

// Arg 1 (int): vertex count
func py_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	n, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	g, err := libcnr.NewGraph(int(n))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyGraph{g}), nil
}

func py_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Int(g.VertexCount()), nil
}

func py_Graph_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Int(g.EdgeCount()), nil
}

func py_Graph_AddEdge(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	var u, v py.Object
	err := py.ParseTuple(args, "ii", &u, &v)
	if err != nil {
		return nil, err
	}
	err = g.AddEdge(int(u.(py.Int)), int(v.(py.Int)))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.None, nil
}

// Solve(graph, k, depth=False, rounds_limit=0, stay=True, workers=0)
func py_Solve(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	if len(args) < 2 {
		return nil, py.ExceptionNewf(py.TypeError, "Solve(graph, k) requires 2 args")
	}
	g, err := getGraphFromObj(args[0])
	if err != nil {
		return nil, err
	}
	k, err := py.GetInt(args[1])
	if err != nil {
		return nil, err
	}

	opts := cnr.DefaultSolveOpts
	opts.Cops = int(k)
	py.LoadAttr(kwargs, "depth", &opts.TrackDepth)
	py.LoadAttr(kwargs, "rounds_limit", &opts.MaxRounds)
	py.LoadAttr(kwargs, "stay", &opts.RobberMayStay)
	py.LoadAttr(kwargs, "workers", &opts.NumWorkers)

	sol, err := libcnr.Solve(g.Graph, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pySolution{sol}), nil
}

type pySolution struct {
	*libcnr.Solution
}

func (sol pySolution) Type() *py.Type {
	return pySolutionType
}

func py_Solution_Decision(self py.Object, args py.Tuple) (py.Object, error) {
	sol := self.(pySolution)
	return py.String(sol.Verdict.Decision.String()), nil
}

func py_Solution_Witness(self py.Object, args py.Tuple) (py.Object, error) {
	sol := self.(pySolution)
	return copsTuple(sol.Verdict.Witness), nil
}

func py_Solution_Rounds(self py.Object, args py.Tuple) (py.Object, error) {
	sol := self.(pySolution)
	return py.Int(sol.Verdict.Rounds), nil
}

func copsTuple(cops []byte) py.Tuple {
	out := make(py.Tuple, len(cops))
	for i, c := range cops {
		out[i] = py.Int(c)
	}
	return out
}

func traceTuple(trace cnr.PlayTrace) py.Tuple {
	out := make(py.Tuple, len(trace))
	for i := range trace {
		step := &trace[i]
		out[i] = py.Tuple{copsTuple(step.Cops), py.Int(step.Robber), py.String(step.Label)}
	}
	return out
}

func py_Solution_Trace(self py.Object, args py.Tuple) (py.Object, error) {
	sol := self.(pySolution)
	return traceTuple(sol.Verdict.Trace), nil
}

// Arg 1 (str): trace dump pathname
// Arg 2 (str): dp table dump pathname
func py_Solution_DumpFiles(self py.Object, args py.Tuple) (py.Object, error) {
	sol := self.(pySolution)
	var tracePath, dpPath string
	err := py.LoadTuple(args, []interface{}{&tracePath, &dpPath})
	if err != nil {
		return nil, err
	}
	if err = sol.DumpFiles(tracePath, dpPath); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx cnr.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: cnr.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := cnr.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	}
	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	cnr.SolutionCatalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.SolutionCatalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_NumSolutions(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumSolutions(byte(Nv))), nil
}

// Arg 1 (Graph), Arg 2 (Solution): caches the solution; returns True if new
func py_Catalog_Add(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", cnr.ErrReadOnly)
	}
	g, err := getGraphFromObj(args[0])
	if err != nil {
		return nil, err
	}
	sol, ok := args[1].(pySolution)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Solution object")
	}
	if cat.TryAddSolution(g.Signature(), &sol.Verdict) {
		return py.True, nil
	}
	return py.False, nil
}

// Arg 1 (Graph), Arg 2 (int k): returns (decision, witness, rounds, trace) or None
func py_Catalog_Lookup(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	g, err := getGraphFromObj(args[0])
	if err != nil {
		return nil, err
	}
	k, err := py.GetInt(args[1])
	if err != nil {
		return nil, err
	}

	v, found := cat.LookupSolution(g.Signature(), int(k))
	if !found {
		return py.None, nil
	}
	return py.Tuple{
		py.String(v.Decision.String()),
		copsTuple(v.Witness),
		py.Int(v.Rounds),
		traceTuple(v.Trace),
	}, nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Graph_NumVerts, 0, "")
		pyGraphType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Graph_NumEdges, 0, "")
		pyGraphType.Dict["AddEdge"] = py.MustNewMethod("AddEdge", py_Graph_AddEdge, 0, "")
	}

	/////////////////////////////////
	// Solution
	{
		pySolutionType.Dict["Decision"] = py.MustNewMethod("Decision", py_Solution_Decision, 0, "WIN or LOSS")
		pySolutionType.Dict["Witness"] = py.MustNewMethod("Witness", py_Solution_Witness, 0, "winning cop start tuple")
		pySolutionType.Dict["Rounds"] = py.MustNewMethod("Rounds", py_Solution_Rounds, 0, "worst-case capture rounds (-1 if untracked)")
		pySolutionType.Dict["Trace"] = py.MustNewMethod("Trace", py_Solution_Trace, 0, "minimax play trace")
		pySolutionType.Dict["DumpFiles"] = py.MustNewMethod("DumpFiles", py_Solution_DumpFiles, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["NumSolutions"] = py.MustNewMethod("NumSolutions", py_Catalog_NumSolutions, 0, "")
		pyCatalogType.Dict["Add"] = py.MustNewMethod("Add", py_Catalog_Add, 0, "")
		pyCatalogType.Dict["Lookup"] = py.MustNewMethod("Lookup", py_Catalog_Lookup, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewGraph", py_NewGraph, 0, ""),
			py.MustNewMethod("LoadGraph", py_LoadGraph, 0, ""),
			py.MustNewMethod("GraphFromExpr", py_GraphFromExpr, 0, ""),
			py.MustNewMethod("Solve", py_Solve, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_VTX":     py.Int(cnr.MaxVertex),
			"MAX_COPS":    py.Int(cnr.MaxCops),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pycnr",
				Doc:  "k-Cops and Robbers pursuit game solver gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
