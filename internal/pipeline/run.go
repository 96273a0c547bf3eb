package pipeline

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/roach88/keyjoin/internal/dataset"
	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/join"
)

// Index is an indexed side of a join.
type Index = join.Ordered[string, ir.IRObject]

// Rows is the lazy sequence of shaped rows produced by a job.
type Rows = join.Joined[string, ir.IRObject, ir.IRObject, Row]

// Result holds a started job. Nothing is joined until Rows is pulled.
type Result struct {
	Job   Job
	Left  *Index
	Right *Index
	Rows  *Rows
}

// DiscardedRow is a record the selector left out.
type DiscardedRow struct {
	Key string

	// Side is "left" or "right": where Record came from.
	Side string

	Record ir.IRObject
}

// Discarded returns a fresh pass over the complement rows.
func (r *Result) Discarded() (iter.Seq[DiscardedRow], error) {
	seq, err := r.Rows.Discarded()
	if err != nil {
		return nil, err
	}
	return func(yield func(DiscardedRow) bool) {
		for d := range seq.All() {
			row := DiscardedRow{Key: d.Key, Side: "right"}
			if d.Left != nil {
				row.Side = "left"
				row.Record = *d.Left
			} else if d.Right != nil {
				row.Record = *d.Right
			}
			if !yield(row) {
				return
			}
		}
	}, nil
}

// Runner executes jobs.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger uses slog.Default().
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run validates job, loads and indexes both sides, and starts the join.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	sel, err := job.Selector()
	if err != nil {
		return nil, err
	}

	left, err := r.index(ctx, "left", job.Left, job.Policy)
	if err != nil {
		return nil, err
	}
	right, err := r.index(ctx, "right", job.Right, job.Policy)
	if err != nil {
		return nil, err
	}

	rows, err := join.Join(join.Mapping[string, ir.IRObject](left), join.Mapping[string, ir.IRObject](right), sel, job.Shape.Resolver())
	if err != nil {
		return nil, err
	}

	r.logger.Info("join started",
		"job", job.Name,
		"type", job.Type,
		"negate", job.Negate,
		"shape", job.Shape,
		"left", left.Len(),
		"right", right.Len())

	return &Result{Job: job, Left: left, Right: right, Rows: rows}, nil
}

func (r *Runner) index(ctx context.Context, name string, side Side, policy join.CollisionPolicy) (*Index, error) {
	r.logger.Debug("loading dataset", "side", name, "source", side.Source.String())

	records, err := dataset.Load(ctx, side.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	idx, err := dataset.Index(records, side.Key, policy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	r.logger.Debug("dataset indexed",
		"side", name,
		"records", len(records),
		"keys", idx.Len(),
		"policy", policyName(policy))
	return idx, nil
}

func policyName(p join.CollisionPolicy) string {
	if p == join.Strict {
		return "strict"
	}
	return string(p)
}
