package ddmin

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Splitter partitions a configuration into n disjoint parts whose union is
// the configuration. Implementations must be deterministic and free of side
// effects.
type Splitter[E comparable] interface {
	Split(config []E, n int) [][]E
}

// SplitFunc adapts a function to the Splitter interface.
type SplitFunc[E comparable] func(config []E, n int) [][]E

func (f SplitFunc[E]) Split(config []E, n int) [][]E {
	return f(config, n)
}

var (
	_ Splitter[int] = ContiguousSplitter[int]{}
	_ Splitter[int] = RandomSplitter[int]{}
	_ Splitter[int] = SplitFunc[int](nil)
)

// ContiguousSplitter cuts a configuration into n contiguous runs, keeping
// input order. Part sizes differ by at most one; larger parts come first.
type ContiguousSplitter[E comparable] struct{}

func (ContiguousSplitter[E]) Split(config []E, n int) [][]E {
	return splitContiguous(config, n)
}

func splitContiguous[E comparable](config []E, n int) [][]E {
	if n <= 0 {
		return nil
	}
	parts := make([][]E, n)
	size, rest := len(config)/n, len(config)%n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rest {
			end++
		}
		parts[i] = config[start:end:end]
		start = end
	}
	return parts
}

// RandomSplitter shuffles the configuration with a generator seeded from Seed
// and then splits it contiguously. The same seed and input always give the
// same partition.
type RandomSplitter[E comparable] struct {
	Seed uint64
}

func (s RandomSplitter[E]) Split(config []E, n int) [][]E {
	shuffled := slices.Clone(config)
	r := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return splitContiguous(shuffled, n)
}

// ValidatePartition checks that parts holds exactly n pairwise disjoint
// configurations whose union is config.
func ValidatePartition[E comparable](config []E, parts [][]E, n int) error {
	if len(parts) != n {
		return &SplitError{N: n, Parts: len(parts), Reason: "wrong number of parts"}
	}
	in := make(map[E]bool, len(config))
	for _, e := range config {
		in[e] = false
	}
	covered := 0
	for i, part := range parts {
		for _, e := range part {
			seen, ok := in[e]
			if !ok {
				return &SplitError{N: n, Parts: len(parts),
					Reason: fmt.Sprintf("part %d holds an element outside the input", i)}
			}
			if seen {
				return &SplitError{N: n, Parts: len(parts),
					Reason: fmt.Sprintf("part %d overlaps an earlier part", i)}
			}
			in[e] = true
			covered++
		}
	}
	if covered != len(in) {
		return &SplitError{N: n, Parts: len(parts), Reason: "parts do not cover the input"}
	}
	return nil
}
