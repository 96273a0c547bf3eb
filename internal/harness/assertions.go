package harness

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/keyjoin/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Diff     string // cmp.Diff of expected and actual, when both are lists
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Diff != "" {
		fmt.Fprintf(&buf, "\nDiff (-expected +actual):\n%s", e.Diff)
	}

	return buf.String()
}

// canonicalKeys converts assertion key values to canonical key strings.
func canonicalKeys(values []any) ([]string, error) {
	keys := make([]string, len(values))
	for i, raw := range values {
		v, err := ir.FromGo(raw)
		if err != nil {
			return nil, fmt.Errorf("keys[%d]: %w", i, err)
		}
		b, err := ir.MarshalCanonical(v)
		if err != nil {
			return nil, fmt.Errorf("keys[%d]: %w", i, err)
		}
		keys[i] = string(b)
	}
	return keys, nil
}

// assertKeys checks an ordered key list.
func assertKeys(kind string, actual []string, assertion Assertion) error {
	expected, err := canonicalKeys(assertion.Keys)
	if err != nil {
		return &AssertionError{Type: kind, Expected: "valid keys", Actual: err.Error()}
	}
	if diff := cmp.Diff(expected, actual); diff != "" {
		return &AssertionError{
			Type:     kind,
			Expected: formatKeys(expected),
			Actual:   formatKeys(actual),
			Diff:     diff,
		}
	}
	return nil
}

func assertEmittedCount(result *Result, assertion Assertion) error {
	if got := len(result.Emitted); got != *assertion.Count {
		return &AssertionError{
			Type:     AssertEmittedCount,
			Expected: fmt.Sprintf("%d rows", *assertion.Count),
			Actual:   fmt.Sprintf("%d rows %s", got, formatKeys(result.EmittedKeys())),
		}
	}
	return nil
}

// assertPartition checks that every key of either side is emitted or
// discarded, never both and never twice.
func assertPartition(result *Result, scenario *Scenario) error {
	union, err := keyUnion(scenario)
	if err != nil {
		return &AssertionError{Type: AssertPartition, Expected: "keyed records", Actual: err.Error()}
	}

	seen := make(map[string]string)
	for _, part := range []struct {
		name string
		keys []string
	}{
		{"emitted", result.EmittedKeys()},
		{"discarded", result.DiscardedKeys()},
	} {
		for _, k := range part.keys {
			if prev, dup := seen[k]; dup {
				return &AssertionError{
					Type:     AssertPartition,
					Expected: "each key emitted or discarded exactly once",
					Actual:   fmt.Sprintf("key %s is both %s and %s", k, prev, part.name),
				}
			}
			seen[k] = part.name
		}
	}

	covered := slices.Sorted(maps.Keys(seen))
	if diff := cmp.Diff(union, covered); diff != "" {
		return &AssertionError{
			Type:     AssertPartition,
			Expected: "emitted and discarded keys cover " + formatKeys(union),
			Actual:   formatKeys(covered),
			Diff:     diff,
		}
	}
	return nil
}

func assertError(result *Result, assertion Assertion) error {
	if result.ErrorCode == assertion.Code {
		return nil
	}
	actual := "no error"
	if result.Err != nil {
		actual = result.Err.Error()
	}
	return &AssertionError{
		Type:     AssertError,
		Expected: "error " + assertion.Code,
		Actual:   actual,
	}
}

// keyUnion is the sorted set of keys present in either side of scenario.
func keyUnion(s *Scenario) ([]string, error) {
	set := make(map[string]struct{})
	for _, side := range []struct {
		records []map[string]any
		key     string
	}{
		{s.Left, firstNonEmpty(s.LeftKey, s.Key)},
		{s.Right, firstNonEmpty(s.RightKey, s.Key)},
	} {
		recs, err := convertRecords(side.records)
		if err != nil {
			return nil, err
		}
		for _, rec := range recs {
			k, err := ir.KeyOf(rec, side.key)
			if err != nil {
				return nil, err
			}
			set[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set)), nil
}

func formatKeys(keys []string) string {
	return "[" + strings.Join(keys, ", ") + "]"
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages. A join error fails every assertion except "error".
func EvaluateAssertions(result *Result, scenario *Scenario, assertions []Assertion) []string {
	var errs []string

	expectsError := slices.ContainsFunc(assertions, func(a Assertion) bool { return a.Type == AssertError })
	if result.Err != nil && !expectsError {
		errs = append(errs, fmt.Sprintf("join failed: %v", result.Err))
		return errs
	}

	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertEmittedKeys:
			err = assertKeys(AssertEmittedKeys, result.EmittedKeys(), assertion)
		case AssertEmittedCount:
			err = assertEmittedCount(result, assertion)
		case AssertDiscardedKeys:
			err = assertKeys(AssertDiscardedKeys, result.DiscardedKeys(), assertion)
		case AssertPartition:
			err = assertPartition(result, scenario)
		case AssertError:
			err = assertError(result, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}

	return errs
}
