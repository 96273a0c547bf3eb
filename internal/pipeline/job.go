package pipeline

import (
	"fmt"

	"github.com/roach88/keyjoin/internal/dataset"
	"github.com/roach88/keyjoin/internal/join"
)

// DefaultType is used when a job names neither a type nor a negated type.
const DefaultType = join.Inner

// Side is one input of a job.
type Side struct {
	dataset.Source

	// Key is the dotted path of the field that keys each record.
	Key string
}

// Job is a fully resolved join job.
type Job struct {
	// Name labels the job in logs. Optional.
	Name string

	Left  Side
	Right Side

	// Type selects which keys are emitted.
	Type join.Type

	// Negate emits the complement of Type instead (join.Not).
	Negate bool

	// Policy applies to repeated keys within each side.
	Policy join.CollisionPolicy

	// Shape builds the emitted rows.
	Shape Shape

	// Discarded asks for the complement rows as well.
	Discarded bool
}

// Selector resolves the job's join selector.
func (j Job) Selector() (join.Selector, error) {
	if j.Negate {
		return join.Not(j.Type)
	}
	return j.Type, nil
}

// Validate checks the job before any data is read.
func (j Job) Validate() error {
	if err := j.Left.validate("left"); err != nil {
		return err
	}
	if err := j.Right.validate("right"); err != nil {
		return err
	}
	if _, err := j.Type.Membership(); err != nil {
		return fmt.Errorf("invalid join type (valid: %v): %w", join.Types, err)
	}
	switch j.Policy {
	case join.Strict, join.Ignore, join.Override:
	default:
		return fmt.Errorf("invalid on_duplicate %q (valid: ignore, override, or empty for strict)", j.Policy)
	}
	if !j.Shape.Valid() {
		return fmt.Errorf("invalid shape %q (valid: pair, merge)", j.Shape)
	}
	return nil
}

func (s Side) validate(name string) error {
	if s.Key == "" {
		return fmt.Errorf("%s: key is required", name)
	}
	if s.Path == "" && s.Records == nil {
		return fmt.Errorf("%s: path is required", name)
	}
	return nil
}
