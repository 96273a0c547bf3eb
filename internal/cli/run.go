package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/keyjoin/internal/pipeline"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <job-file>",
		Short: "Run a join job file",
		Long: `Run a join described by a CUE or YAML job file.

Dataset paths in the job are resolved relative to the job file.

Example job (jobs/unpaid.cue):
  job: {
  	not:       "inner"
  	discarded: true
  	left:  {path: "../data/invoices.json", key: "id"}
  	right: {path: "../data/ledger.db", table: "payments", key: "invoice_id"}
  }

Example:
  keyjoin run jobs/unpaid.cue
  keyjoin run jobs/unpaid.cue --format json --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runJob(opts *RootOptions, path string, cmd *cobra.Command) error {
	setupLogging(opts, cmd)

	job, err := pipeline.LoadJob(path)
	if err != nil {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		code := MapErrorCode(err, ErrCodeInvalidJob)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load job", err)
	}

	return executeJob(opts, job, cmd)
}
