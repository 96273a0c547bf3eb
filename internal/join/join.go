package join

// Joined is the result of Join: the lazy sequence of resolved records plus a
// deferred complement. The complement is not part of the emitted records and
// is only reachable through DiscardedValues.
type Joined[K comparable, L, R, U any] struct {
	*Sequence[U]

	discarded func() *Sequence[Discarded[K, L, R]]
}

// Discarded is one record dropped by a join: the key and whichever side was
// defined. When both are defined only Left is kept.
type Discarded[K comparable, L, R any] struct {
	Key   K
	Left  *L
	Right *R
}

// Value returns the kept side, left first. It is nil only for a zero
// Discarded.
func (d Discarded[K, L, R]) Value() any {
	if d.Left != nil {
		return *d.Left
	}
	if d.Right != nil {
		return *d.Right
	}
	return nil
}

// pickDefined is the complement's resolver.
func pickDefined[K comparable, L, R any](l *L, r *R, k K) Discarded[K, L, R] {
	if l != nil {
		return Discarded[K, L, R]{Key: k, Left: l}
	}
	return Discarded[K, L, R]{Key: k, Right: r}
}

// Join joins left and right on their shared keys.
//
// sel is a Type, a Membership or a Predicate[K, L, R]; resolve builds one
// output record per qualifying key. All validation happens here: once Join
// returns without error, consuming the sequence cannot fail.
func Join[K comparable, L, R, U any](
	left Mapping[K, L],
	right Mapping[K, R],
	sel Selector,
	resolve Resolver[K, L, R, U],
) (*Joined[K, L, R, U], error) {
	if isNilMapping(left) {
		return nil, newTypeMismatch("left is not a mapping")
	}
	if isNilMapping(right) {
		return nil, newTypeMismatch("right is not a mapping")
	}

	pred, err := predicateFor[K, L, R](sel)
	if err != nil {
		return nil, err
	}

	if resolve == nil {
		return nil, newTypeMismatch("resolve is nil")
	}

	neg, err := sel.negate()
	if err != nil {
		return nil, err
	}
	negPred, err := predicateFor[K, L, R](neg)
	if err != nil {
		return nil, err
	}

	return &Joined[K, L, R, U]{
		Sequence: newSequence(scan(left, right, pred, resolve)),
		discarded: func() *Sequence[Discarded[K, L, R]] {
			return newSequence(scan(left, right, negPred, pickDefined[K, L, R]))
		},
	}, nil
}

// Discarded returns the records this join dropped. See DiscardedValues.
func (j *Joined[K, L, R, U]) Discarded() (*Sequence[Discarded[K, L, R]], error) {
	return DiscardedValues(j)
}

// DiscardedValues returns a fresh lazy sequence of the records j dropped.
//
// Every call runs the engine again with the negated selector. Fails with
// MISSING_COMPLEMENT when j was not produced by Join.
func DiscardedValues[K comparable, L, R, U any](j *Joined[K, L, R, U]) (*Sequence[Discarded[K, L, R]], error) {
	if j == nil || j.discarded == nil {
		return nil, newMissingComplement()
	}
	return j.discarded(), nil
}

// LeftJoin emits every key of left.
func LeftJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, Left, resolve)
}

// RightJoin emits every key of right.
func RightJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, Right, resolve)
}

// InnerJoin emits keys present on both sides.
func InnerJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, Inner, resolve)
}

// OuterJoin emits keys present on exactly one side.
func OuterJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, Outer, resolve)
}

// FullJoin emits every key of either side.
func FullJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, Full, resolve)
}

// LeftOuterJoin emits keys present only on the left.
func LeftOuterJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, LeftOuter, resolve)
}

// RightOuterJoin emits keys present only on the right.
func RightOuterJoin[K comparable, L, R, U any](left Mapping[K, L], right Mapping[K, R], resolve Resolver[K, L, R, U]) (*Joined[K, L, R, U], error) {
	return Join(left, right, RightOuter, resolve)
}
