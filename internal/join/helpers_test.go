package join

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// tuple is the test resolver's output: key plus both sides.
type tuple struct {
	Key   int
	Left  *string
	Right *string
}

func pack(l, r *string, k int) tuple {
	return tuple{Key: k, Left: l, Right: r}
}

type kv struct {
	k int
	v string
}

// ordered builds an insertion-ordered mapping so tests can assert exact order.
func ordered(pairs ...kv) *Ordered[int, string] {
	m := NewOrdered[int, string]()
	for _, p := range pairs {
		m.Set(p.k, p.v)
	}
	return m
}

// scenario is L = {1:"a", 2:"b"}, R = {2:"x", 3:"y"}.
func scenario() (*Ordered[int, string], *Ordered[int, string]) {
	return ordered(kv{1, "a"}, kv{2, "b"}), ordered(kv{2, "x"}, kv{3, "y"})
}

func collect[T any](t *testing.T, s *Sequence[T]) []T {
	t.Helper()
	require.NotNil(t, s)
	return slices.Collect(s.All())
}

func keysOf(rows []tuple) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}

func discardedKeys(rows []Discarded[int, string, string]) []int {
	keys := make([]int, len(rows))
	for i, r := range rows {
		keys[i] = r.Key
	}
	return keys
}
