package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState (version + per-vertex-count solution tallies)

	GraphSig, copCount (byte)  =>  encoded Verdict (decision, witness, rounds, trace)
	...

GraphSig starts with the vertex count byte, so solutions iterate grouped by
graph size and a Select bounded by vertex count is a straight range scan.
The original project cached solved games as JSON + NPZ files per graph; this
catalog replaces both: the verdict record carries the full minimax trace, so
a cached game replays without re-solving.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

// catalog is a db wrapper for a solved-games catalog
type catalog struct {
	ctx        cnr.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

type catalogState struct {
	MajorVers    int64
	MinorVers    int64
	NumSolutions [cnr.MaxVertex + 1]uint64
}

// OpenCatalog opens a new or existing solution catalog and attaches it to ctx.
func OpenCatalog(ctx cnr.CatalogContext, opts cnr.CatalogOpts) (cnr.SolutionCatalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer, so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(cnr.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the ctx holds the catalog open until it closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = 2024
		cat.state.MinorVers = 1
	}

	if err == nil && (cat.state.MajorVers != 2024 || cat.state.MinorVers != 1) {
		err = errors.New("catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumSolutions(forVtxCount byte) int64 {
	return int64(cat.state.NumSolutions[forVtxCount])
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() {
	if !cat.stateDirty || cat.readOnly {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, cat.state.marshal(nil))
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}

func solutionKey(out []byte, sig cnr.GraphSig, cops int) []byte {
	out = append(out, sig...)
	out = append(out, byte(cops))
	return out
}

// TryAddSolution caches the verdict for (sig, v.Cops) if not already present.
//
// If true is returned, no solution existed and v was added.
func (cat *catalog) TryAddSolution(sig cnr.GraphSig, v *cnr.Verdict) bool {
	if cat.readOnly {
		return false
	}

	var keyBuf [256]byte
	key := solutionKey(keyBuf[:0], sig, v.Cops)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false // already solved
	}
	if err != badger.ErrKeyNotFound {
		panic(err)
	}

	if err = txn.Set(key, appendVerdict(nil, v)); err != nil {
		panic(err)
	}
	if err = txn.Commit(); err != nil {
		panic(err)
	}

	cat.state.NumSolutions[sig[0]]++
	cat.stateDirty = true
	return true
}

// LookupSolution returns the cached verdict for (sig, cops), if present.
func (cat *catalog) LookupSolution(sig cnr.GraphSig, cops int) (*cnr.Verdict, bool) {
	var keyBuf [256]byte
	key := solutionKey(keyBuf[:0], sig, cops)

	var v *cnr.Verdict
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			v, err = readVerdict(val)
			return err
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false
	}
	if err != nil {
		panic(err)
	}
	return v, true
}

// Select fires onHit with every cached solution meeting the selection
// criteria, in signature order. The caller owns closing the channel.
func (cat *catalog) Select(sel cnr.SolutionSelector, onHit cnr.OnSolutionHit) {
	minKey := [1]byte{sel.MinVerts}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   64,
	})
	defer it.Close()

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		curItem := it.Item()
		curKey := curItem.Key()

		if curKey[0] == 0 {
			continue // the state entry; signatures always lead with N >= 1
		}

		// Stop once the vertex count is past the max
		if curKey[0] > sel.MaxVerts {
			break
		}

		cops := curKey[len(curKey)-1]
		if cops < sel.MinCops || cops > sel.MaxCops {
			continue
		}

		err := curItem.Value(func(val []byte) error {
			v, err := readVerdict(val)
			if err != nil {
				return err
			}
			if sel.WinsOnly && v.Decision != cnr.WIN {
				return nil
			}
			onHit <- v
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}
