package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/keyjoin/internal/ir"
	"github.com/roach88/keyjoin/internal/pipeline"
)

// JoinOutput is the JSON payload of the join and run commands.
type JoinOutput struct {
	Job       string            `json:"job,omitempty"`
	Type      string            `json:"type"`
	Negate    bool              `json:"negate,omitempty"`
	Count     int               `json:"count"`
	Rows      []ir.IRObject     `json:"rows"`
	Discarded []DiscardedOutput `json:"discarded,omitempty"`
}

// DiscardedOutput is one complement row in JSON output.
type DiscardedOutput struct {
	Key    ir.IRValue  `json:"key"`
	Side   string      `json:"side"`
	Record ir.IRObject `json:"record"`
}

// setupLogging installs the stderr text logger, at Debug when verbose.
func setupLogging(opts *RootOptions, cmd *cobra.Command) {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// signalContext derives a context that is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
}

// executeJob runs job and writes its rows in the configured format.
func executeJob(opts *RootOptions, job pipeline.Job, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   opts.runIDs().Generate(),
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	res, err := pipeline.NewRunner(slog.Default()).Run(ctx, job)
	if err != nil {
		return outputJoinError(formatter, err, ErrCodeLoadFailed)
	}

	if opts.Format == "json" {
		return outputJoinJSON(ctx, formatter, res)
	}
	return outputJoinText(ctx, formatter, res)
}

func outputJoinJSON(ctx context.Context, formatter *OutputFormatter, res *pipeline.Result) error {
	out := JoinOutput{
		Job:    res.Job.Name,
		Type:   res.Job.Type.String(),
		Negate: res.Job.Negate,
		Rows:   []ir.IRObject{},
	}
	for row := range res.Rows.All() {
		if err := ctx.Err(); err != nil {
			return outputJoinError(formatter, err, ErrCodeGeneric)
		}
		out.Rows = append(out.Rows, row.Record)
	}
	out.Count = len(out.Rows)

	if res.Job.Discarded {
		discarded, err := res.Discarded()
		if err != nil {
			return outputJoinError(formatter, err, ErrCodeGeneric)
		}
		out.Discarded = []DiscardedOutput{}
		for row := range discarded {
			out.Discarded = append(out.Discarded, DiscardedOutput{
				Key:    pipeline.KeyValue(row.Key),
				Side:   row.Side,
				Record: row.Record,
			})
		}
	}

	slog.Info("join complete", "job", res.Job.Name, "rows", out.Count, "discarded", len(out.Discarded))
	return formatter.Success(out)
}

// outputJoinText streams one canonical JSON record per line. Discarded rows
// follow a "discarded:" line.
func outputJoinText(ctx context.Context, formatter *OutputFormatter, res *pipeline.Result) error {
	w := formatter.Writer

	count := 0
	for row := range res.Rows.All() {
		if err := ctx.Err(); err != nil {
			return outputJoinError(formatter, err, ErrCodeGeneric)
		}
		line, err := ir.MarshalCanonical(row.Record)
		if err != nil {
			return outputJoinError(formatter, err, ErrCodeGeneric)
		}
		fmt.Fprintln(w, string(line))
		count++
	}

	discardedCount := 0
	if res.Job.Discarded {
		discarded, err := res.Discarded()
		if err != nil {
			return outputJoinError(formatter, err, ErrCodeGeneric)
		}
		fmt.Fprintln(w, "discarded:")
		for row := range discarded {
			line, err := ir.MarshalCanonical(map[string]any{
				"key":    pipeline.KeyValue(row.Key),
				"side":   row.Side,
				"record": row.Record,
			})
			if err != nil {
				return outputJoinError(formatter, err, ErrCodeGeneric)
			}
			fmt.Fprintln(w, string(line))
			discardedCount++
		}
	}

	formatter.VerboseLog("%d row(s) emitted, %d discarded", count, discardedCount)
	slog.Info("join complete", "job", res.Job.Name, "rows", count, "discarded", discardedCount)
	return nil
}

// outputJoinError reports err and converts it to an exit error. Invalid jobs,
// unknown join types and missing files are command errors; everything else is
// a join failure.
func outputJoinError(formatter *OutputFormatter, err error, fallback string) error {
	code := MapErrorCode(err, fallback)
	_ = formatter.Error(code, err.Error(), nil)

	exitCode := ExitFailure
	switch code {
	case ErrCodeInvalidJob, ErrCodeInvalidJoinType, ErrCodeNotFound:
		exitCode = ExitCommandError
	}
	return WrapExitError(exitCode, code, err)
}
