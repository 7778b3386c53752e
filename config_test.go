package ddmin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOperations(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []int
		union      []int
		difference []int
		subset     bool
	}{
		{name: "both empty", union: []int{}, difference: []int{}, subset: true},
		{name: "a empty", b: []int{1, 2}, union: []int{1, 2}, difference: []int{}, subset: true},
		{name: "b empty", a: []int{3, 1}, union: []int{3, 1}, difference: []int{3, 1}, subset: false},
		{name: "overlap", a: []int{1, 2, 3}, b: []int{4, 2}, union: []int{1, 2, 3, 4}, difference: []int{1, 3}, subset: false},
		{name: "subset in other order", a: []int{3, 1}, b: []int{1, 2, 3}, union: []int{3, 1, 2}, difference: []int{}, subset: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.union, Union(tt.a, tt.b))
			assert.Equal(t, tt.difference, Difference(tt.a, tt.b))
			assert.Equal(t, tt.subset, IsSubset(tt.a, tt.b))
		})
	}
}

func TestUniverse(t *testing.T) {
	u, err := newUniverse([]string{"c", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), u.len())

	b, ok := u.set([]string{"b", "c"})
	require.True(t, ok)
	assert.Equal(t, []string{"c", "b"}, u.config(b))

	_, ok = u.set([]string{"z"})
	assert.False(t, ok)

	assert.Equal(t, []string{"c", "a", "b"}, u.config(u.all()))

	t.Run("duplicates", func(t *testing.T) {
		_, err := newUniverse([]int{1, 2, 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvariantViolation))

		var ie *InvariantError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, SideDuplicate, ie.Side)
	})

	t.Run("empty", func(t *testing.T) {
		u, err := newUniverse[int](nil)
		require.NoError(t, err)
		assert.Empty(t, u.config(u.all()))
	})
}

func TestEnumerateValues(t *testing.T) {
	config := Enumerate([]rune("abca"))
	assert.Equal(t, []Indexed[rune]{{0, 'a'}, {1, 'b'}, {2, 'c'}, {3, 'a'}}, config)

	shuffled := []Indexed[rune]{{3, 'a'}, {0, 'a'}, {2, 'c'}}
	assert.Equal(t, "aca", string(Values(shuffled)))
	assert.Equal(t, []Indexed[rune]{{3, 'a'}, {0, 'a'}, {2, 'c'}}, shuffled)

	assert.Empty(t, Values[rune](nil))
}
