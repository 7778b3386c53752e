package ddmin

import (
	"sync"
)

// hashable is a key for memoTable.
type hashable interface {
	Hash() uint64
	Equals(other hashable) bool
}

// memoTable is a chained hash table keyed by hashable values. The bucket
// count is always a power of two.
type memoTable[V any] struct {
	mu         sync.RWMutex
	buckets    []*memoEntry[V]
	size       int
	mask       uint64
	loadFactor float64
}

type memoEntry[V any] struct {
	key   hashable
	value V
	next  *memoEntry[V]
}

type cacheOptions struct {
	capacity   int
	loadFactor float64
}

// CacheOption configures a CachedOracle.
type CacheOption func(*cacheOptions)

// WithCapacity sets the initial number of buckets, rounded up to a power of
// two. Default 16.
func WithCapacity(capacity int) CacheOption {
	return func(o *cacheOptions) {
		o.capacity = capacity
	}
}

// WithLoadFactor sets the entries-per-bucket ratio above which the table
// doubles. Default 0.75.
func WithLoadFactor(loadFactor float64) CacheOption {
	return func(o *cacheOptions) {
		o.loadFactor = loadFactor
	}
}

func newCacheOptions(opts ...CacheOption) *cacheOptions {
	o := &cacheOptions{
		capacity:   16,
		loadFactor: 0.75,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.loadFactor <= 0 {
		o.loadFactor = 0.75
	}

	realCap := 1
	for realCap < o.capacity {
		realCap <<= 1
	}
	o.capacity = realCap
	return o
}

func newMemoTable[V any](o *cacheOptions) *memoTable[V] {
	return &memoTable[V]{
		buckets:    make([]*memoEntry[V], o.capacity),
		mask:       uint64(o.capacity - 1),
		loadFactor: o.loadFactor,
	}
}

func (m *memoTable[V]) Set(key hashable, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	index := key.Hash() & m.mask
	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			e.value = value
			return
		}
	}

	m.buckets[index] = &memoEntry[V]{
		key:   key,
		value: value,
		next:  m.buckets[index],
	}
	m.size++

	if float64(m.size)/float64(len(m.buckets)) > m.loadFactor {
		m.grow()
	}
}

func (m *memoTable[V]) Get(key hashable) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	index := key.Hash() & m.mask
	for e := m.buckets[index]; e != nil; e = e.next {
		if e.key.Equals(key) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

func (m *memoTable[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Reset drops every entry but keeps the current bucket count.
func (m *memoTable[V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.buckets)
	m.size = 0
}

// grow doubles the bucket count. Callers hold the write lock.
func (m *memoTable[V]) grow() {
	newCap := len(m.buckets) << 1
	buckets := make([]*memoEntry[V], newCap)
	mask := uint64(newCap - 1)

	for _, head := range m.buckets {
		for e := head; e != nil; e = e.next {
			index := e.key.Hash() & mask
			buckets[index] = &memoEntry[V]{
				key:   e.key,
				value: e.value,
				next:  buckets[index],
			}
		}
	}

	m.buckets = buckets
	m.mask = mask
}
