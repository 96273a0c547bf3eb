package pipeline

import (
	"maps"

	"go.ytsaurus.tech/library/go/ptr"

	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
)

// Shape names how a joined row is built from its two sides.
type Shape string

const (
	// ShapePair emits {"key": k, "left": l, "right": r}; absent sides are
	// omitted.
	ShapePair Shape = "pair"

	// ShapeMerge emits the fields of left overlaid with the fields of right.
	ShapeMerge Shape = "merge"
)

// Valid reports whether s is a known shape. The empty shape means pair.
func (s Shape) Valid() bool {
	return s == "" || s == ShapePair || s == ShapeMerge
}

// Row is one emitted record.
type Row struct {
	// Key is the canonical JSON of the key value.
	Key string

	// Record is the shaped output.
	Record ir.IRObject
}

// Resolver returns the join resolver that builds rows of this shape.
func (s Shape) Resolver() join.Resolver[string, ir.IRObject, ir.IRObject, Row] {
	if s == ShapeMerge {
		return mergeRow
	}
	return pairRow
}

func pairRow(left, right *ir.IRObject, key string) Row {
	rec := ir.IRObject{"key": KeyValue(key)}
	if left != nil {
		rec["left"] = *left
	}
	if right != nil {
		rec["right"] = *right
	}
	return Row{Key: key, Record: rec}
}

func mergeRow(left, right *ir.IRObject, key string) Row {
	rec := make(ir.IRObject)
	maps.Copy(rec, ptr.From(left))
	maps.Copy(rec, ptr.From(right))
	return Row{Key: key, Record: rec}
}

// KeyValue decodes a canonical key back into its value.
func KeyValue(key string) ir.IRValue {
	v, err := ir.UnmarshalIRValue([]byte(key))
	if err != nil {
		// Keys are always produced by ir.KeyOf.
		return ir.IRString(key)
	}
	return v
}
