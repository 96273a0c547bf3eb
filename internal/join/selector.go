package join

import (
	"strings"
)

// Type names one of the fixed join disciplines.
//
// Type is string-backed so tags can come straight from flags and job files;
// strings outside the seven constants are invalid join types.
type Type string

const (
	Left       Type = "left"       // left value defined
	Right      Type = "right"      // right value defined
	Inner      Type = "inner"      // both defined
	Outer      Type = "outer"      // not both defined
	Full       Type = "full"       // at least one defined
	LeftOuter  Type = "leftOuter"  // left defined, right absent
	RightOuter Type = "rightOuter" // right defined, left absent
)

// Types lists the recognized join types in declaration order.
var Types = []Type{Left, Right, Inner, Outer, Full, LeftOuter, RightOuter}

// Membership decides inclusion from the presence of each side alone.
// Membership values are selectors.
type Membership func(leftDefined, rightDefined bool) bool

// Predicate decides inclusion from the values themselves. An absent side is
// nil. Predicates must be pure.
type Predicate[K comparable, L, R any] func(left *L, right *R, key K) bool

// Resolver builds the output record for a qualifying key. An absent side is
// nil.
type Resolver[K comparable, L, R, U any] func(left *L, right *R, key K) U

// Selector chooses which keys a join emits.
//
// It is a closed union: Type is the named variant; Membership and Predicate
// are the custom variants.
type Selector interface {
	negate() (Selector, error)
}

// Custom wraps fn as a Predicate so its type parameters are inferred.
func Custom[K comparable, L, R any](fn func(left *L, right *R, key K) bool) Predicate[K, L, R] {
	return Predicate[K, L, R](fn)
}

func leftMember(l, r bool) bool       { return l }
func rightMember(l, r bool) bool      { return r }
func innerMember(l, r bool) bool      { return l && r }
func outerMember(l, r bool) bool      { return !(l && r) }
func fullMember(l, r bool) bool       { return l || r }
func leftOuterMember(l, r bool) bool  { return l && !r }
func rightOuterMember(l, r bool) bool { return r && !l }
func never(l, r bool) bool            { return false }

var memberships = map[Type]Membership{
	Left:       leftMember,
	Right:      rightMember,
	Inner:      innerMember,
	Outer:      outerMember,
	Full:       fullMember,
	LeftOuter:  leftOuterMember,
	RightOuter: rightOuterMember,
}

// inverses maps each type to the selector covering exactly the keys it drops.
// full drops nothing from the key union, so its inverse never matches.
var inverses = map[Type]Selector{
	Left:       RightOuter,
	RightOuter: Left,
	Right:      LeftOuter,
	LeftOuter:  Right,
	Inner:      Outer,
	Outer:      Inner,
	Full:       Membership(never),
}

// Membership returns the presence predicate for t.
func (t Type) Membership() (Membership, error) {
	m, ok := memberships[t]
	if !ok {
		return nil, newInvalidJoinType(t)
	}
	return m, nil
}

// Valid reports whether t is one of the seven recognized join types.
func (t Type) Valid() bool {
	_, ok := memberships[t]
	return ok
}

func (t Type) String() string {
	return string(t)
}

func (t Type) negate() (Selector, error) {
	inv, ok := inverses[t]
	if !ok {
		return nil, newInvalidJoinType(t)
	}
	return inv, nil
}

func (m Membership) negate() (Selector, error) {
	if m == nil {
		return nil, newTypeMismatch("membership predicate is nil")
	}
	return Membership(func(l, r bool) bool { return !m(l, r) }), nil
}

func (p Predicate[K, L, R]) negate() (Selector, error) {
	if p == nil {
		return nil, newTypeMismatch("predicate is nil")
	}
	return Predicate[K, L, R](func(l *L, r *R, k K) bool { return !p(l, r, k) }), nil
}

// Not returns the logical complement of sel.
//
// A Type negates to another Type through the fixed inverse table, except Full,
// which negates to a Membership that is always false. Membership and
// Predicate selectors are wrapped with a logical NOT.
func Not(sel Selector) (Selector, error) {
	if sel == nil {
		return nil, newTypeMismatch("selector is nil")
	}
	return sel.negate()
}

// ParseType resolves a join type tag, ignoring case and '-'/'_' separators,
// so "left-outer", "LEFT_OUTER" and "leftOuter" all name LeftOuter.
func ParseType(s string) (Type, error) {
	norm := normalizeTag(s)
	for _, t := range Types {
		if normalizeTag(string(t)) == norm {
			return t, nil
		}
	}
	return "", newInvalidJoinType(Type(s))
}

func normalizeTag(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.ToLower(strings.TrimSpace(s))
}

// predicateFor resolves sel into the single predicate the engine runs.
func predicateFor[K comparable, L, R any](sel Selector) (Predicate[K, L, R], error) {
	switch s := sel.(type) {
	case nil:
		return nil, newTypeMismatch("selector is nil")
	case Type:
		m, err := s.Membership()
		if err != nil {
			return nil, err
		}
		return fromMembership[K, L, R](m), nil
	case Membership:
		if s == nil {
			return nil, newTypeMismatch("membership predicate is nil")
		}
		return fromMembership[K, L, R](s), nil
	case Predicate[K, L, R]:
		if s == nil {
			return nil, newTypeMismatch("predicate is nil")
		}
		return s, nil
	default:
		return nil, newTypeMismatch("selector %T does not match the mapping key and value types", sel)
	}
}

func fromMembership[K comparable, L, R any](m Membership) Predicate[K, L, R] {
	return func(l *L, r *R, _ K) bool {
		return m(l != nil, r != nil)
	}
}
