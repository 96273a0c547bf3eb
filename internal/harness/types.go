package harness

import (
	"github.com/roach88/keyjoin/internal/ir"
)

// EmittedRow is one row of the primary join sequence.
type EmittedRow struct {
	Key    string      `json:"key"`
	Record ir.IRObject `json:"record"`
}

// DiscardedRow is one row of the complement sequence.
type DiscardedRow struct {
	Key    string      `json:"key"`
	Side   string      `json:"side"`
	Record ir.IRObject `json:"record"`
}

// Result is the outcome of a scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Emitted are the rows of the join, in emission order.
	Emitted []EmittedRow `json:"emitted"`

	// Discarded are the complement rows, in emission order.
	Discarded []DiscardedRow `json:"discarded"`

	// ErrorCode is the join error code when the join failed (for example
	// DUPLICATE_KEY), or "ERROR" for failures without a code.
	ErrorCode string `json:"error_code,omitempty"`

	// Err is the join failure, if any.
	Err error `json:"-"`

	// Errors holds assertion failures.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Emitted:   []EmittedRow{},
		Discarded: []DiscardedRow{},
		Errors:    []string{},
	}
}

// AddError records a failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// EmittedKeys lists the emitted keys in order.
func (r *Result) EmittedKeys() []string {
	keys := make([]string, len(r.Emitted))
	for i, row := range r.Emitted {
		keys[i] = row.Key
	}
	return keys
}

// DiscardedKeys lists the discarded keys in order.
func (r *Result) DiscardedKeys() []string {
	keys := make([]string, len(r.Discarded))
	for i, row := range r.Discarded {
		keys[i] = row.Key
	}
	return keys
}
