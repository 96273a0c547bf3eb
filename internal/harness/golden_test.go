package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(file)
			require.NoError(t, err)
			require.Equal(t, name, scenario.Name, "scenario name must match its file name")

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	result, err := Run(baseScenario("leftOuter", Assertion{Type: AssertPartition}))
	require.NoError(t, err)

	data, err := Snapshot("base", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"discarded":[{"key":2,"record":{"id":2,"v":"b"},"side":"left"},{"key":3,"record":{"id":3,"v":"y"},"side":"right"}],`+
			`"emitted":[{"key":1,"record":{"key":1,"left":{"id":1,"v":"a"}}}],"scenario_name":"base"}`,
		string(data))
}

func TestSnapshot_ErrorCode(t *testing.T) {
	r := NewResult()
	r.ErrorCode = "DUPLICATE_KEY"

	data, err := Snapshot("dup", r)
	require.NoError(t, err)
	assert.Equal(t, `{"discarded":[],"emitted":[],"error_code":"DUPLICATE_KEY","scenario_name":"dup"}`, string(data))
}
