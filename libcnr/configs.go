package libcnr

import (
	"bytes"
	"fmt"
	"math"
	"math/bits"

	"github.com/lindensheehy/CopsAndRobbers/cnr"
	"github.com/plan-systems/klog"

	"github.com/pkg/errors"
)

// ConfigTable holds every sorted k-multiset of {0..N-1} (all cop
// configurations) in lexicographic order, packed as one flat byte array.
// The rank of a configuration in this order is its configuration id.
type ConfigTable struct {
	N     int
	K     int
	Count uint64 // C(N+k-1, k)
	packd []byte // Count * K bytes
}

// GenerateConfigs enumerates all configurations for k cops on N vertices.
// All index-range checks happen here, before any state allocation:
// Count*K bytes must be addressable and Count*N state ids must leave the
// top bit of a 64-bit word free for the frontier turn tag.
func GenerateConfigs(N, k int) (*ConfigTable, error) {
	if N <= 0 {
		return nil, cnr.ErrEmptyGraph
	}
	if N > cnr.MaxVertex {
		return nil, cnr.ErrGraphTooLarge
	}
	if k < 0 || k > cnr.MaxCops {
		return nil, cnr.ErrTooManyCops
	}

	M, err := cnr.MultisetCount(N, k)
	if err != nil {
		return nil, errors.Wrapf(err, "C(%d+%d-1, %d)", N, k, k)
	}

	if hi, lo := bits.Mul64(M, uint64(k)); hi != 0 || lo > math.MaxInt64 {
		return nil, errors.Wrapf(cnr.ErrIndexOverflow, "configuration array needs %d * %d bytes", M, k)
	}
	if hi, lo := bits.Mul64(M, uint64(N)); hi != 0 || lo > math.MaxInt64>>1 {
		return nil, errors.Wrapf(cnr.ErrIndexOverflow, "state space of %d * %d states", M, N)
	}

	ct := &ConfigTable{
		N:     N,
		K:     k,
		Count: M,
		packd: make([]byte, M*uint64(k)),
	}

	klog.V(2).Infof("allocated %d bytes for %d cop configurations", len(ct.packd), M)

	if k == 0 {
		return ct, nil // the single empty configuration
	}

	var current [cnr.MaxCops]byte
	offset := uint64(0)

	for {
		copy(ct.packd[offset:], current[:k])
		offset += uint64(k)

		// Advance to the next lexicographic multiset
		p := k - 1
		for p >= 0 && current[p] == byte(N-1) {
			p--
		}
		if p < 0 {
			break
		}
		current[p]++
		for i := p + 1; i < k; i++ {
			current[i] = current[p]
		}
	}

	return ct, nil
}

// At returns the k-byte configuration with the given id.
func (ct *ConfigTable) At(id uint64) []byte {
	base := id * uint64(ct.K)
	return ct.packd[base : base+uint64(ct.K)]
}

// Lookup binary-searches the packed array for a sorted k-multiset and returns
// its configuration id. The first byte dominates the comparison, so the
// search narrows quickly on sorted inputs.
func (ct *ConfigTable) Lookup(cfg []byte) (uint64, bool) {
	if ct.K == 0 {
		return 0, len(cfg) == 0
	}

	K := uint64(ct.K)
	lo, hi := int64(0), int64(ct.Count)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		base := uint64(mid) * K
		cmp := bytes.Compare(ct.packd[base:base+K], cfg)
		if cmp == 0 {
			return uint64(mid), true
		}
		if cmp < 0 {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return 0, false
}

// MustLookup resolves a configuration that the enumeration is known to
// contain. A miss means the transition generator produced a tuple outside the
// enumeration, which breaks the totality invariant: that is a programmer
// error, not an input error.
func (ct *ConfigTable) MustLookup(cfg []byte) uint64 {
	id, ok := ct.Lookup(cfg)
	if !ok {
		panic(fmt.Sprintf("cop configuration %v not found in enumeration (totality violated)", cfg))
	}
	return id
}
