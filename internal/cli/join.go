package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keyjoin/internal/dataset"
	"github.com/roach88/keyjoin/internal/join"
	"github.com/roach88/keyjoin/internal/pipeline"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions
	Type        string
	Not         string
	Key         string
	LeftKey     string
	RightKey    string
	OnDuplicate string
	Shape       string
	Discarded   bool
	LeftTable   string
	RightTable  string
	LeftFormat  string
	RightFormat string
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "join <left> <right>",
		Short: "Join two datasets on a key field",
		Long: `Join two datasets on a key field and print the joined rows.

Join types:
  left        every key of the left dataset
  right       every key of the right dataset
  inner       keys present on both sides
  outer       keys present on exactly one side
  full        keys present on either side
  leftOuter   keys present on the left only
  rightOuter  keys present on the right only

--not emits the complement of a type instead. --discarded also prints the
rows the join left out.

Examples:
  keyjoin join customers.yaml orders.json --key id --right-key customer_id --type left
  keyjoin join users.json shop.db --right-table accounts --key email --not inner
  keyjoin join a.cue b.cue --key sku --shape merge --on-duplicate override --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "join type (default inner)")
	cmd.Flags().StringVar(&opts.Not, "not", "", "emit the complement of this join type")
	cmd.Flags().StringVarP(&opts.Key, "key", "k", "", "key field of both sides (dotted path)")
	cmd.Flags().StringVar(&opts.LeftKey, "left-key", "", "key field of the left side")
	cmd.Flags().StringVar(&opts.RightKey, "right-key", "", "key field of the right side")
	cmd.Flags().StringVar(&opts.OnDuplicate, "on-duplicate", "", "repeated keys: ignore or override (default: fail)")
	cmd.Flags().StringVar(&opts.Shape, "shape", string(pipeline.ShapePair), "row shape (pair|merge)")
	cmd.Flags().BoolVar(&opts.Discarded, "discarded", false, "also print discarded rows")
	cmd.Flags().StringVar(&opts.LeftTable, "left-table", "", "SQLite table of the left side")
	cmd.Flags().StringVar(&opts.RightTable, "right-table", "", "SQLite table of the right side")
	cmd.Flags().StringVar(&opts.LeftFormat, "left-format", "", "left dataset format (json|yaml|cue|sqlite)")
	cmd.Flags().StringVar(&opts.RightFormat, "right-format", "", "right dataset format (json|yaml|cue|sqlite)")

	return cmd
}

func runJoin(opts *JoinOptions, leftPath, rightPath string, cmd *cobra.Command) error {
	setupLogging(opts.RootOptions, cmd)

	job, err := opts.job(leftPath, rightPath)
	if err != nil {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		code := MapErrorCode(err, ErrCodeInvalidJob)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	return executeJob(opts.RootOptions, job, cmd)
}

// job builds a pipeline job from the flags.
func (o *JoinOptions) job(leftPath, rightPath string) (pipeline.Job, error) {
	leftKey, rightKey := o.Key, o.Key
	if o.LeftKey != "" {
		leftKey = o.LeftKey
	}
	if o.RightKey != "" {
		rightKey = o.RightKey
	}
	if leftKey == "" || rightKey == "" {
		return pipeline.Job{}, fmt.Errorf("--key is required (or both --left-key and --right-key)")
	}

	job := pipeline.Job{
		Left: pipeline.Side{
			Source: dataset.Source{Path: leftPath, Table: o.LeftTable, Format: dataset.Format(o.LeftFormat)},
			Key:    leftKey,
		},
		Right: pipeline.Side{
			Source: dataset.Source{Path: rightPath, Table: o.RightTable, Format: dataset.Format(o.RightFormat)},
			Key:    rightKey,
		},
		Type:      pipeline.DefaultType,
		Policy:    join.CollisionPolicy(o.OnDuplicate),
		Shape:     pipeline.Shape(o.Shape),
		Discarded: o.Discarded,
	}

	if o.Type != "" && o.Not != "" {
		return pipeline.Job{}, fmt.Errorf("--type and --not are mutually exclusive")
	}
	tag := o.Type
	if o.Not != "" {
		tag, job.Negate = o.Not, true
	}
	if tag != "" {
		t, err := join.ParseType(tag)
		if err != nil {
			return pipeline.Job{}, err
		}
		job.Type = t
	}

	if err := job.Validate(); err != nil {
		return pipeline.Job{}, err
	}
	return job, nil
}
