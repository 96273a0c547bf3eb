package join

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.ytsaurus.tech/library/go/ptr"
)

func TestJoin_ScenarioInner(t *testing.T) {
	l, r := scenario()
	rows, err := InnerJoin(l, r, pack)
	require.NoError(t, err)

	assert.Equal(t, []tuple{
		{Key: 2, Left: ptr.String("b"), Right: ptr.String("x")},
	}, collect(t, rows.Sequence))
}

func TestJoin_ScenarioLeft(t *testing.T) {
	l, r := scenario()
	rows, err := LeftJoin(l, r, pack)
	require.NoError(t, err)

	assert.Equal(t, []tuple{
		{Key: 1, Left: ptr.String("a")},
		{Key: 2, Left: ptr.String("b"), Right: ptr.String("x")},
	}, collect(t, rows.Sequence))
}

func TestJoin_ScenarioFull(t *testing.T) {
	l, r := scenario()
	rows, err := FullJoin(l, r, pack)
	require.NoError(t, err)

	assert.Equal(t, []tuple{
		{Key: 1, Left: ptr.String("a")},
		{Key: 2, Left: ptr.String("b"), Right: ptr.String("x")},
		{Key: 3, Right: ptr.String("y")},
	}, collect(t, rows.Sequence))
}

func TestJoin_ScenarioOuter(t *testing.T) {
	l, r := scenario()
	rows, err := OuterJoin(l, r, pack)
	require.NoError(t, err)

	assert.Equal(t, []tuple{
		{Key: 1, Left: ptr.String("a")},
		{Key: 3, Right: ptr.String("y")},
	}, collect(t, rows.Sequence))
}

func TestJoin_ScenarioRemainingTypes(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Mapping[int, string], Mapping[int, string], Resolver[int, string, string, tuple]) (*Joined[int, string, string, tuple], error)
		want []int
	}{
		{"right", RightJoin[int, string, string, tuple], []int{2, 3}},
		{"leftOuter", LeftOuterJoin[int, string, string, tuple], []int{1}},
		{"rightOuter", RightOuterJoin[int, string, string, tuple], []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r := scenario()
			rows, err := tt.fn(l, r, pack)
			require.NoError(t, err)
			assert.Equal(t, tt.want, keysOf(collect(t, rows.Sequence)))
		})
	}
}

func TestJoin_WrappersMatchJoinWithTag(t *testing.T) {
	wrappers := map[Type]func(Mapping[int, string], Mapping[int, string], Resolver[int, string, string, tuple]) (*Joined[int, string, string, tuple], error){
		Left:       LeftJoin[int, string, string, tuple],
		Right:      RightJoin[int, string, string, tuple],
		Inner:      InnerJoin[int, string, string, tuple],
		Outer:      OuterJoin[int, string, string, tuple],
		Full:       FullJoin[int, string, string, tuple],
		LeftOuter:  LeftOuterJoin[int, string, string, tuple],
		RightOuter: RightOuterJoin[int, string, string, tuple],
	}

	for typ, wrapper := range wrappers {
		t.Run(string(typ), func(t *testing.T) {
			l, r := scenario()
			viaWrapper, err := wrapper(l, r, pack)
			require.NoError(t, err)
			viaJoin, err := Join(l, r, typ, pack)
			require.NoError(t, err)

			assert.Equal(t, collect(t, viaJoin.Sequence), collect(t, viaWrapper.Sequence))
		})
	}
}

func TestJoin_DisjointKeys(t *testing.T) {
	l := Map[int, string]{1: "a", 2: "b", 3: "c"}
	r := Map[int, string]{10: "x", 20: "y"}

	full, err := FullJoin(l, r, pack)
	require.NoError(t, err)
	assert.Len(t, collect(t, full.Sequence), l.Len()+r.Len())

	inner, err := InnerJoin(l, r, pack)
	require.NoError(t, err)
	assert.Empty(t, collect(t, inner.Sequence))
}

func TestJoin_OuterEqualsLeftOuterUnionRightOuter(t *testing.T) {
	l := Map[int, string]{1: "a", 2: "b", 4: "d", 6: "f"}
	r := Map[int, string]{2: "x", 3: "y", 6: "z", 7: "w"}

	outer, err := OuterJoin(l, r, pack)
	require.NoError(t, err)
	lo, err := LeftOuterJoin(l, r, pack)
	require.NoError(t, err)
	ro, err := RightOuterJoin(l, r, pack)
	require.NoError(t, err)

	loKeys := keysOf(collect(t, lo.Sequence))
	roKeys := keysOf(collect(t, ro.Sequence))
	for _, k := range loKeys {
		assert.NotContains(t, roKeys, k, "leftOuter and rightOuter overlap")
	}

	assert.ElementsMatch(t, append(loKeys, roKeys...), keysOf(collect(t, outer.Sequence)))
}

func TestJoin_ComplementPartitionsKeyUnion(t *testing.T) {
	l := Map[int, string]{1: "a", 2: "b", 4: "d"}
	r := Map[int, string]{2: "x", 3: "y", 4: "z"}
	union := []int{1, 2, 3, 4}

	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			rows, err := Join(l, r, typ, pack)
			require.NoError(t, err)
			discarded, err := DiscardedValues(rows)
			require.NoError(t, err)

			emitted := keysOf(collect(t, rows.Sequence))
			dropped := discardedKeys(collect(t, discarded))

			if typ == Full {
				assert.Empty(t, dropped)
				assert.ElementsMatch(t, union, emitted)
				return
			}
			for _, k := range emitted {
				assert.NotContains(t, dropped, k)
			}
			assert.ElementsMatch(t, union, append(emitted, dropped...))
		})
	}
}

func TestJoin_DiscardedValuesPreferDefinedSide(t *testing.T) {
	l, r := scenario()
	rows, err := InnerJoin(l, r, pack)
	require.NoError(t, err)

	discarded, err := rows.Discarded()
	require.NoError(t, err)
	got := collect(t, discarded)

	assert.Equal(t, []Discarded[int, string, string]{
		{Key: 1, Left: ptr.String("a")},
		{Key: 3, Right: ptr.String("y")},
	}, got)
	assert.Equal(t, "a", got[0].Value())
	assert.Equal(t, "y", got[1].Value())
}

func TestJoin_DiscardedValuesKeepLeftWhenBothDefined(t *testing.T) {
	l, r := scenario()
	none := Custom(func(_, _ *string, _ int) bool { return false })

	rows, err := Join(l, r, none, pack)
	require.NoError(t, err)
	assert.Empty(t, collect(t, rows.Sequence))

	discarded, err := DiscardedValues(rows)
	require.NoError(t, err)
	got := collect(t, discarded)
	require.Len(t, got, 3)
	assert.Equal(t, Discarded[int, string, string]{Key: 2, Left: ptr.String("b")}, got[1])
}

func TestJoin_DiscardedValuesRecomputedEachCall(t *testing.T) {
	l, r := scenario()
	calls := 0
	pred := Custom(func(left, _ *string, _ int) bool {
		calls++
		return left != nil
	})

	rows, err := Join(l, r, pred, pack)
	require.NoError(t, err)
	assert.Equal(t, 0, calls, "nothing evaluated before the first pull")

	first, err := DiscardedValues(rows)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, discardedKeys(collect(t, first)))
	assert.Equal(t, 3, calls)

	second, err := DiscardedValues(rows)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, discardedKeys(collect(t, second)))
	assert.Equal(t, 6, calls)
}

func TestJoin_DiscardedValuesMissingComplement(t *testing.T) {
	plain := &Joined[int, string, string, tuple]{Sequence: newSequence(slices.Values([]tuple{{Key: 1}}))}

	_, err := DiscardedValues(plain)
	require.Error(t, err)
	assert.True(t, IsMissingComplement(err))
	assert.ErrorIs(t, err, ErrMissingComplement)

	_, err = DiscardedValues[int, string, string, tuple](nil)
	assert.True(t, IsMissingComplement(err))
}

func TestJoin_FullComplementIsEmpty(t *testing.T) {
	l, r := scenario()
	rows, err := FullJoin(l, r, pack)
	require.NoError(t, err)

	discarded, err := rows.Discarded()
	require.NoError(t, err)
	assert.Empty(t, collect(t, discarded))
}

func TestJoin_CustomPredicateSeesValuesAndKey(t *testing.T) {
	l, r := scenario()
	evenKeys := Custom(func(_, _ *string, k int) bool { return k%2 == 0 })

	rows, err := Join(l, r, evenKeys, pack)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, keysOf(collect(t, rows.Sequence)))

	discarded, err := rows.Discarded()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, discardedKeys(collect(t, discarded)))
}

func TestJoin_MembershipSelector(t *testing.T) {
	l, r := scenario()
	onlyRight := Membership(func(left, right bool) bool { return right })

	rows, err := Join(l, r, onlyRight, pack)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, keysOf(collect(t, rows.Sequence)))
}

func TestJoin_PredicateNeverSeesBothAbsent(t *testing.T) {
	l := Map[int, string]{1: "a", 2: "b"}
	r := Map[int, string]{2: "x", 3: "y"}
	seen := map[int]int{}
	pred := Custom(func(left, right *string, k int) bool {
		assert.False(t, left == nil && right == nil, "both sides absent for key %d", k)
		seen[k]++
		return true
	})

	rows, err := Join(l, r, pred, pack)
	require.NoError(t, err)
	collect(t, rows.Sequence)

	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1}, seen, "each key classified exactly once")
}

func TestJoin_ZeroValueIsDefined(t *testing.T) {
	l := Map[int, string]{1: ""}
	r := Map[int, string]{}

	rows, err := InnerJoin(l, r, pack)
	require.NoError(t, err)
	assert.Empty(t, collect(t, rows.Sequence))

	rows, err = LeftOuterJoin(l, r, pack)
	require.NoError(t, err)
	assert.Equal(t, []tuple{{Key: 1, Left: ptr.String("")}}, collect(t, rows.Sequence))
}

func TestJoin_Lazy(t *testing.T) {
	l, r := scenario()
	resolved := 0
	rows, err := FullJoin(l, r, func(left, right *string, k int) int {
		resolved++
		return k
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resolved)

	v, ok := rows.Next()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, resolved)

	rows.Stop()
	_, ok = rows.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, resolved)
}

func TestJoin_SinglePass(t *testing.T) {
	l, r := scenario()
	rows, err := FullJoin(l, r, pack)
	require.NoError(t, err)

	assert.Len(t, collect(t, rows.Sequence), 3)
	assert.Empty(t, collect(t, rows.Sequence), "a consumed sequence stays empty")

	again, err := FullJoin(l, r, pack)
	require.NoError(t, err)
	assert.Len(t, collect(t, again.Sequence), 3, "a new Join starts fresh")
}

func TestJoin_TypeMismatch(t *testing.T) {
	l, r := scenario()
	var nilOrdered *Ordered[int, string]

	tests := []struct {
		name string
		run  func() error
	}{
		{"nil left", func() error {
			_, err := Join[int, string, string, tuple](nil, r, Inner, pack)
			return err
		}},
		{"nil right", func() error {
			_, err := Join[int, string, string, tuple](l, nil, Inner, pack)
			return err
		}},
		{"typed nil left", func() error {
			_, err := Join[int, string, string, tuple](nilOrdered, r, Inner, pack)
			return err
		}},
		{"nil resolve", func() error {
			_, err := Join[int, string, string, tuple](l, r, Inner, nil)
			return err
		}},
		{"nil selector", func() error {
			_, err := Join(l, r, nil, pack)
			return err
		}},
		{"nil predicate", func() error {
			_, err := Join(l, r, Predicate[int, string, string](nil), pack)
			return err
		}},
		{"predicate of other types", func() error {
			_, err := Join(l, r, Custom(func(_, _ *int, _ string) bool { return true }), pack)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, IsTypeMismatch(err), "got %v", err)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestJoin_NilGoMapIsEmptyMapping(t *testing.T) {
	var empty Map[int, string]
	_, r := scenario()

	rows, err := FullJoin(empty, r, pack)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, keysOf(collect(t, rows.Sequence)))
}

func TestJoin_InvalidJoinType(t *testing.T) {
	l, r := scenario()

	_, err := Join(l, r, Type("cross"), pack)
	require.Error(t, err)
	assert.True(t, IsInvalidJoinType(err))
	assert.Equal(t, ErrCodeInvalidJoinType, CodeOf(err))
	assert.Contains(t, err.Error(), "cross")
}
