package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/keyjoin/internal/dataset"
	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
	"github.com/roach88/keyjoin/internal/pipeline"
)

// Harness runs scenarios through the join pipeline.
type Harness struct {
	runner *pipeline.Runner
}

// New creates a harness. Logs are discarded.
func New() *Harness {
	return &Harness{
		runner: pipeline.NewRunner(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
}

// Run executes a test scenario and returns the result.
//
// A join failure is not a Go error: it is recorded in the result so that
// an "error" assertion can match it. Assertions are evaluated last.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes scenario. See the package-level Run.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	job, err := buildJob(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	err = selectType(scenario, &job)
	if err == nil {
		err = h.execute(ctx, job, result)
	}
	if err != nil {
		result.Err = err
		result.ErrorCode = string(join.CodeOf(err))
		if result.ErrorCode == "" {
			result.ErrorCode = "ERROR"
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute drains both the primary and the complement sequence into result.
func (h *Harness) execute(ctx context.Context, job pipeline.Job, result *Result) error {
	res, err := h.runner.Run(ctx, job)
	if err != nil {
		return err
	}

	for row := range res.Rows.All() {
		result.Emitted = append(result.Emitted, EmittedRow{Key: row.Key, Record: row.Record})
	}

	discarded, err := res.Discarded()
	if err != nil {
		return err
	}
	for row := range discarded {
		result.Discarded = append(result.Discarded, DiscardedRow{Key: row.Key, Side: row.Side, Record: row.Record})
	}
	return nil
}

func buildJob(s *Scenario) (pipeline.Job, error) {
	left, err := convertRecords(s.Left)
	if err != nil {
		return pipeline.Job{}, fmt.Errorf("left: %w", err)
	}
	right, err := convertRecords(s.Right)
	if err != nil {
		return pipeline.Job{}, fmt.Errorf("right: %w", err)
	}

	job := pipeline.Job{
		Name:   s.Name,
		Left:   pipeline.Side{Source: dataset.Source{Records: left}, Key: firstNonEmpty(s.LeftKey, s.Key)},
		Right:  pipeline.Side{Source: dataset.Source{Records: right}, Key: firstNonEmpty(s.RightKey, s.Key)},
		Type:   pipeline.DefaultType,
		Policy: join.CollisionPolicy(s.OnDuplicate),
		Shape:  pipeline.Shape(s.Shape),
	}
	return job, nil
}

// selectType applies the scenario's type or not tag to job. An unknown tag is
// a join error, recorded like any other.
func selectType(s *Scenario, job *pipeline.Job) error {
	tag := s.Type
	if s.Not != "" {
		tag, job.Negate = s.Not, true
	}
	if tag == "" {
		return nil
	}
	t, err := join.ParseType(tag)
	if err != nil {
		return err
	}
	job.Type = t
	return nil
}

// convertRecords turns YAML-decoded records into IR objects.
func convertRecords(records []map[string]any) ([]ir.IRObject, error) {
	out := make([]ir.IRObject, len(records))
	for i, rec := range records {
		v, err := ir.FromGo(map[string]any(rec))
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = v.(ir.IRObject)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
