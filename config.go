package ddmin

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// universe maps the elements of the initial failing configuration to bit
// positions. Every configuration built during a run is a subset of it and is
// materialized in universe order.
type universe[E comparable] struct {
	elems []E
	index map[E]uint
}

func newUniverse[E comparable](cFail []E) (*universe[E], error) {
	u := &universe[E]{
		elems: slices.Clone(cFail),
		index: make(map[E]uint, len(cFail)),
	}
	for i, e := range cFail {
		if _, ok := u.index[e]; ok {
			return nil, &InvariantError{Side: SideDuplicate}
		}
		u.index[e] = uint(i)
	}
	return u, nil
}

func (u *universe[E]) len() uint {
	return uint(len(u.elems))
}

// set returns the bitset of config. ok is false if config holds an element
// outside the universe.
func (u *universe[E]) set(config []E) (b *bitset.BitSet, ok bool) {
	b = bitset.New(u.len())
	for _, e := range config {
		i, found := u.index[e]
		if !found {
			return nil, false
		}
		b.Set(i)
	}
	return b, true
}

func (u *universe[E]) all() *bitset.BitSet {
	b := bitset.New(u.len())
	for i := uint(0); i < u.len(); i++ {
		b.Set(i)
	}
	return b
}

// config materializes b in universe order.
func (u *universe[E]) config(b *bitset.BitSet) []E {
	out := make([]E, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, u.elems[i])
	}
	return out
}

// Union returns the elements of a followed by the elements of b not in a.
func Union[E comparable](a, b []E) []E {
	seen := make(map[E]struct{}, len(a)+len(b))
	out := make([]E, 0, len(a)+len(b))
	for _, s := range [][]E{a, b} {
		for _, e := range s {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// Difference returns the elements of a that are not in b, in the order of a.
func Difference[E comparable](a, b []E) []E {
	drop := make(map[E]struct{}, len(b))
	for _, e := range b {
		drop[e] = struct{}{}
	}
	out := make([]E, 0, len(a))
	for _, e := range a {
		if _, ok := drop[e]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// IsSubset reports whether every element of a is in b.
func IsSubset[E comparable](a, b []E) bool {
	in := make(map[E]struct{}, len(b))
	for _, e := range b {
		in[e] = struct{}{}
	}
	for _, e := range a {
		if _, ok := in[e]; !ok {
			return false
		}
	}
	return true
}

// Indexed pairs a value with its position in the input it was taken from, so
// equal values at different positions stay distinct elements.
type Indexed[T comparable] struct {
	Pos   int
	Value T
}

// Enumerate turns values into a configuration of position/value pairs.
func Enumerate[T comparable](values []T) []Indexed[T] {
	out := make([]Indexed[T], len(values))
	for i, v := range values {
		out[i] = Indexed[T]{Pos: i, Value: v}
	}
	return out
}

// Values returns the values of config ordered by position.
func Values[T comparable](config []Indexed[T]) []T {
	sorted := slices.Clone(config)
	slices.SortFunc(sorted, func(a, b Indexed[T]) int {
		return a.Pos - b.Pos
	})
	out := make([]T, len(sorted))
	for i, e := range sorted {
		out[i] = e.Value
	}
	return out
}
