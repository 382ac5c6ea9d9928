package cnr

import (
	"fmt"
	"math/bits"
	"strings"
	"sync"
)

// MultisetCount returns C(n+k-1, k): the number of sorted k-multisets over n
// vertices, which is the number of cop configuration ids the enumerator
// must allocate. Overflow of the running product is an ErrIndexOverflow.
func MultisetCount(n, k int) (uint64, error) {
	nv := n + k - 1
	kv := k

	if kv == 0 || kv == nv {
		return 1, nil
	}
	if kv > nv/2 {
		kv = nv - kv
	}

	res := uint64(1)
	for i := 1; i <= kv; i++ {
		hi, lo := bits.Mul64(res, uint64(nv-i+1))
		if hi != 0 {
			return 0, ErrIndexOverflow
		}
		res = lo / uint64(i)
	}
	return res, nil
}

// CompareConfigs orders two k-byte cop configurations lexicographically.
func CompareConfigs(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// ConfigContains reports whether vertex r appears in the configuration.
func ConfigContains(cfg []byte, r byte) bool {
	for _, c := range cfg {
		if c == r {
			return true
		}
	}
	return false
}

// FormatConfig renders a configuration the way the CLI reports witnesses: "(1, 2, 3)".
func FormatConfig(cfg []byte) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range cfg {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", c)
	}
	b.WriteByte(')')
	return b.String()
}

// NewCatalogContext returns a CatalogContext whose Done() channel closes once
// Close() has been called and every attached catalog has detached. Close()
// itself does not wait.
func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[SolutionCatalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	openCount    sync.WaitGroup
	openCatalogs map[SolutionCatalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
}

func (ctx *catalogContext) AttachCatalog(cat SolutionCatalog) {
	ctx.openCount.Add(1)
	ctx.mu.Lock()
	ctx.openCatalogs[cat] = struct{}{}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat SolutionCatalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	close(ctx.closing)
	ctx.mu.Lock()
	for cat := range ctx.openCatalogs {
		go cat.Close()
	}
	ctx.mu.Unlock()
}
