package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/keyjoin/internal/dataset"
	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
)

// JobError reports a problem in a job file, with its CUE position when known.
// Err is the underlying cause, if any (a *join.Error for unknown join types).
type JobError struct {
	Field   string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *JobError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// jobFile is the on-disk form shared by CUE and YAML job files.
type jobFile struct {
	Job *jobSpec `json:"job" yaml:"job"`
}

type jobSpec struct {
	Name        string    `json:"name" yaml:"name"`
	Type        string    `json:"type" yaml:"type"`
	Not         string    `json:"not" yaml:"not"`
	OnDuplicate string    `json:"on_duplicate" yaml:"on_duplicate"`
	Shape       string    `json:"shape" yaml:"shape"`
	Discarded   bool      `json:"discarded" yaml:"discarded"`
	Left        *sideSpec `json:"left" yaml:"left"`
	Right       *sideSpec `json:"right" yaml:"right"`
}

type sideSpec struct {
	Path   string         `json:"path" yaml:"path"`
	Key    string         `json:"key" yaml:"key"`
	Format string         `json:"format" yaml:"format"`
	Table  string         `json:"table" yaml:"table"`
	Where  map[string]any `json:"where" yaml:"where"`
}

// LoadJob reads a job file. The format follows the extension: .cue, or
// .yaml/.yml. Relative dataset paths resolve against the file's directory.
func LoadJob(path string) (Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Job{}, fmt.Errorf("failed to read job file: %w", err)
	}

	var (
		spec *jobSpec
		pos  func(field string) token.Pos
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		spec, pos, err = decodeCUEJob(path, data)
	case ".yaml", ".yml":
		spec, err = decodeYAMLJob(data)
		pos = func(string) token.Pos { return token.NoPos }
	default:
		return Job{}, &JobError{Message: fmt.Sprintf("unsupported job file %q: use .cue, .yaml or .yml", path)}
	}
	if err != nil {
		return Job{}, err
	}

	job, err := spec.resolve(filepath.Dir(path), pos)
	if err != nil {
		return Job{}, err
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return job, nil
}

// decodeCUEJob evaluates the file and decodes its "job" value through JSON,
// so CUE defaults and constraints apply before the job is read.
func decodeCUEJob(path string, data []byte) (*jobSpec, func(string) token.Pos, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}

	jobVal := value.LookupPath(cue.ParsePath("job"))
	if !jobVal.Exists() {
		return nil, nil, &JobError{Field: "job", Message: "job is required", Pos: value.Pos()}
	}
	if err := jobVal.Validate(cue.Concrete(true)); err != nil {
		return nil, nil, formatCUEError(err)
	}

	js, err := jobVal.MarshalJSON()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	dec.DisallowUnknownFields()

	var spec jobSpec
	if err := dec.Decode(&spec); err != nil {
		return nil, nil, &JobError{Field: "job", Message: err.Error(), Pos: jobVal.Pos()}
	}

	pos := func(field string) token.Pos {
		if v := jobVal.LookupPath(cue.ParsePath(field)); v.Exists() {
			return v.Pos()
		}
		return jobVal.Pos()
	}
	return &spec, pos, nil
}

func decodeYAMLJob(data []byte) (*jobSpec, error) {
	var file jobFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, &JobError{Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	if file.Job == nil {
		return nil, &JobError{Field: "job", Message: "job is required"}
	}
	return file.Job, nil
}

func (s *jobSpec) resolve(dir string, pos func(string) token.Pos) (Job, error) {
	fail := func(field, format string, args ...any) error {
		return &JobError{Field: field, Message: fmt.Sprintf(format, args...), Pos: pos(field)}
	}

	job := Job{
		Name:      s.Name,
		Type:      DefaultType,
		Policy:    join.CollisionPolicy(s.OnDuplicate),
		Shape:     Shape(s.Shape),
		Discarded: s.Discarded,
	}

	switch {
	case s.Type != "" && s.Not != "":
		return Job{}, fail("not", "type and not are mutually exclusive")
	case s.Type != "":
		t, err := join.ParseType(s.Type)
		if err != nil {
			return Job{}, &JobError{Field: "type", Message: err.Error(), Pos: pos("type"), Err: err}
		}
		job.Type = t
	case s.Not != "":
		t, err := join.ParseType(s.Not)
		if err != nil {
			return Job{}, &JobError{Field: "not", Message: err.Error(), Pos: pos("not"), Err: err}
		}
		job.Type, job.Negate = t, true
	}

	switch job.Policy {
	case join.Strict, join.Ignore, join.Override:
	default:
		return Job{}, fail("on_duplicate", "must be ignore or override, got %q", s.OnDuplicate)
	}
	if !job.Shape.Valid() {
		return Job{}, fail("shape", "must be pair or merge, got %q", s.Shape)
	}

	var err error
	if job.Left, err = s.Left.resolve("left", dir, fail); err != nil {
		return Job{}, err
	}
	if job.Right, err = s.Right.resolve("right", dir, fail); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (s *sideSpec) resolve(name, dir string, fail func(string, string, ...any) error) (Side, error) {
	if s == nil {
		return Side{}, fail(name, "%s side is required", name)
	}
	if s.Path == "" {
		return Side{}, fail(name+".path", "path is required")
	}
	if s.Key == "" {
		return Side{}, fail(name+".key", "key is required")
	}

	where := make(ir.IRObject, len(s.Where))
	for col, raw := range s.Where {
		v, err := ir.FromGo(raw)
		if err != nil {
			return Side{}, fail(name+".where", "%s: %v", col, err)
		}
		where[col] = v
	}

	path := s.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return Side{
		Source: dataset.Source{
			Path:   path,
			Format: dataset.Format(s.Format),
			Table:  s.Table,
			Where:  where,
		},
		Key: s.Key,
	}, nil
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &JobError{Field: "cue", Message: first.Error(), Pos: positions[0]}
	}
	return &JobError{Field: "cue", Message: first.Error()}
}
