package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/keyjoin/internal/pipeline"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Key is the key field of both sides. LeftKey and RightKey override it.
	Key      string `yaml:"key"`
	LeftKey  string `yaml:"left_key,omitempty"`
	RightKey string `yaml:"right_key,omitempty"`

	// Type is the join type. Not selects the complement of a type instead.
	// With neither, the join is inner.
	Type string `yaml:"type,omitempty"`
	Not  string `yaml:"not,omitempty"`

	// OnDuplicate is the collision policy: ignore, override, or empty.
	OnDuplicate string `yaml:"on_duplicate,omitempty"`

	// Shape is pair (default) or merge.
	Shape string `yaml:"shape,omitempty"`

	// Left and Right are the inline records.
	Left  []map[string]any `yaml:"left"`
	Right []map[string]any `yaml:"right"`

	// Assertions validate the emitted and discarded rows.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "emitted_keys": emitted keys equal Keys, in order
	// - "emitted_count": exactly Count rows were emitted
	// - "discarded_keys": discarded keys equal Keys, in order
	// - "partition": emitted and discarded keys are disjoint and together
	//   cover every key of both sides
	// - "error": the join failed with Code
	Type string `yaml:"type"`

	// Keys are key values, compared by canonical JSON.
	Keys []any `yaml:"keys,omitempty"`

	// Count is the expected number of emitted rows.
	Count *int `yaml:"count,omitempty"`

	// Code is the expected error code (e.g. DUPLICATE_KEY).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertEmittedKeys   = "emitted_keys"
	AssertEmittedCount  = "emitted_count"
	AssertDiscardedKeys = "discarded_keys"
	AssertPartition     = "partition"
	AssertError         = "error"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields and missing required fields are errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Key == "" && (s.LeftKey == "" || s.RightKey == "") {
		return fmt.Errorf("key is required (or both left_key and right_key)")
	}

	if s.Type != "" && s.Not != "" {
		return fmt.Errorf("type and not are mutually exclusive")
	}

	if !pipeline.Shape(s.Shape).Valid() {
		return fmt.Errorf("unknown shape %q", s.Shape)
	}

	if s.Left == nil {
		return fmt.Errorf("left list is required (use [] for an empty side)")
	}
	if s.Right == nil {
		return fmt.Errorf("right list is required (use [] for an empty side)")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEmittedKeys, AssertDiscardedKeys:
		if a.Keys == nil {
			return fmt.Errorf("assertions[%d]: keys list is required for %s (use [] for none)", index, a.Type)
		}
	case AssertEmittedCount:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for emitted_count", index)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for emitted_count", index)
		}
	case AssertPartition:
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
