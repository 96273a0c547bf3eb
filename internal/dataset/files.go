package dataset

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/keyjoin/internal/ir"
)

func loadJSON(path string) ([]ir.IRObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	v, err := ir.UnmarshalIRValue(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recordList(path, v)
}

func loadYAML(path string) ([]ir.IRObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	v, err := ir.FromGo(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recordList(path, v)
}

// loadCUE evaluates a CUE file and reads records from its "records" field or,
// failing that, from the file's top-level list. The value must be concrete.
func loadCUE(path string) ([]ir.IRObject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	if recs := value.LookupPath(cue.ParsePath("records")); recs.Exists() {
		value = recs
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("%s: dataset is not concrete: %w", path, err)
	}

	// JSON is the bridge: CUE ints stay ints and floats are rejected by
	// UnmarshalIRValue like any other source.
	js, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	v, err := ir.UnmarshalIRValue(js)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recordList(path, v)
}
