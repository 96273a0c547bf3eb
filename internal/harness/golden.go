package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/pipeline"
)

// Snapshot renders the observable outcome of a scenario as canonical JSON:
// the emitted rows, the discarded rows with their side, and the error code.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	emitted := make([]any, len(result.Emitted))
	for i, row := range result.Emitted {
		emitted[i] = map[string]any{
			"key":    pipeline.KeyValue(row.Key),
			"record": row.Record,
		}
	}

	discarded := make([]any, len(result.Discarded))
	for i, row := range result.Discarded {
		discarded[i] = map[string]any{
			"key":    pipeline.KeyValue(row.Key),
			"side":   row.Side,
			"record": row.Record,
		}
	}

	snapshot := map[string]any{
		"scenario_name": scenarioName,
		"emitted":       emitted,
		"discarded":     discarded,
	}
	if result.ErrorCode != "" {
		snapshot["error_code"] = result.ErrorCode
	}
	return ir.MarshalCanonical(snapshot)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
