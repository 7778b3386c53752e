package ddmin

import (
	"hash/maphash"
	"slices"
	"sync/atomic"
)

// Oracle classifies a configuration. It must be deterministic for the
// minimizer's invariants to hold. Oracles are never called concurrently by a
// single run.
type Oracle[E comparable] interface {
	Evaluate(config []E) Outcome
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc[E comparable] func(config []E) Outcome

func (f OracleFunc[E]) Evaluate(config []E) Outcome {
	return f(config)
}

var (
	_ Oracle[int] = OracleFunc[int](nil)
	_ Oracle[int] = &CachedOracle[int]{}
)

// CachedOracle memoizes another oracle by configuration identity: two
// configurations holding the same elements share one entry whatever their
// order. It is safe for concurrent use, so one instance may serve several
// independent runs; under contention the same configuration can reach the
// wrapped oracle more than once.
type CachedOracle[E comparable] struct {
	inner  Oracle[E]
	seed   maphash.Seed
	table  *memoTable[Outcome]
	hits   atomic.Int64
	misses atomic.Int64
}

func NewCachedOracle[E comparable](inner Oracle[E], opts ...CacheOption) *CachedOracle[E] {
	return &CachedOracle[E]{
		inner: inner,
		seed:  maphash.MakeSeed(),
		table: newMemoTable[Outcome](newCacheOptions(opts...)),
	}
}

func (c *CachedOracle[E]) Evaluate(config []E) Outcome {
	key := newConfigKey(c.seed, config)
	if outcome, ok := c.table.Get(key); ok {
		c.hits.Add(1)
		return outcome
	}
	c.misses.Add(1)

	outcome := c.inner.Evaluate(config)
	key.elems = slices.Clone(config)
	c.table.Set(key, outcome)
	return outcome
}

// Len returns the number of cached configurations.
func (c *CachedOracle[E]) Len() int {
	return c.table.Len()
}

// Hits returns how many evaluations were answered from the cache.
func (c *CachedOracle[E]) Hits() int64 {
	return c.hits.Load()
}

// Misses returns how many evaluations reached the wrapped oracle.
func (c *CachedOracle[E]) Misses() int64 {
	return c.misses.Load()
}

// Reset empties the cache and zeroes the counters.
func (c *CachedOracle[E]) Reset() {
	c.table.Reset()
	c.hits.Store(0)
	c.misses.Store(0)
}

// configKey identifies a duplicate-free configuration as a set. The hash is
// a sum of element hashes so it does not depend on order.
type configKey[E comparable] struct {
	elems []E
	hash  uint64
}

func newConfigKey[E comparable](seed maphash.Seed, config []E) configKey[E] {
	h := uint64(len(config))
	for _, e := range config {
		h += maphash.Comparable(seed, e)
	}
	return configKey[E]{elems: config, hash: h}
}

func (k configKey[E]) Hash() uint64 {
	return k.hash
}

func (k configKey[E]) Equals(other hashable) bool {
	o, ok := other.(configKey[E])
	if !ok || o.hash != k.hash || len(o.elems) != len(k.elems) {
		return false
	}
	return IsSubset(k.elems, o.elems)
}
