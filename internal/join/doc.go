// Package join implements relational-style joins over two keyed mappings.
//
// A join walks a left and a right Mapping that share a key type and emits one
// resolved record per qualifying key. Which keys qualify is decided by a
// Selector: either one of the seven named join types or a custom predicate.
//
// ITERATION ORDER:
//
// The engine makes two passes:
//  1. Every key of the left mapping, in the left mapping's order, with the
//     right value looked up by key.
//  2. Every key of the right mapping that is NOT present on the left, in the
//     right mapping's order, with the left side absent.
//
// Each key of the union is classified exactly once, so keys present on both
// sides are never emitted twice, and the predicate never sees two absent
// sides.
//
// LAZINESS:
//
// Join returns a *Joined whose records are computed on demand. Nothing is
// evaluated until the first pull, and the sequence holds no buffered state
// beyond its cursor. A sequence is single-pass: call Join again for a fresh
// one. Mutating either mapping while a sequence over it is being consumed is
// out of contract.
//
// COMPLEMENT:
//
// Every Joined carries a deferred complement. DiscardedValues re-runs the
// engine with the negated selector and returns the records the join dropped.
// Negation of named types goes through a fixed table (inner <-> outer,
// left <-> rightOuter, right <-> leftOuter) so the complement of a named join
// is again a named join; full negates to a predicate that never matches.
//
// Example:
//
//	left := join.Map[int, string]{1: "a", 2: "b"}
//	right := join.Map[int, string]{2: "x", 3: "y"}
//	rows, err := join.InnerJoin(left, right, func(l, r *string, k int) string {
//	    return *l + *r
//	})
//	if err != nil {
//	    return err
//	}
//	for row := range rows.All() {
//	    fmt.Println(row) // "bx"
//	}
package join
