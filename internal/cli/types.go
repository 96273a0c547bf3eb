package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/keyjoin/internal/join"
)

// TypeInfo describes one join type.
type TypeInfo struct {
	Name       string `json:"name"`
	Complement string `json:"complement"`
	Left       bool   `json:"left_only"`
	Right      bool   `json:"right_only"`
	Both       bool   `json:"both"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List join types and their complements",
		Long: `List the join types, which key positions each one emits, and the type
whose rows it discards (its complement). The complement of full is empty.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(rootOpts, cmd)
		},
	}
}

// DescribeTypes lists every join type with its membership table and complement.
func DescribeTypes() ([]TypeInfo, error) {
	infos := make([]TypeInfo, 0, len(join.Types))
	for _, t := range join.Types {
		member, err := t.Membership()
		if err != nil {
			return nil, err
		}
		neg, err := join.Not(t)
		if err != nil {
			return nil, err
		}

		complement := "(none)"
		if nt, ok := neg.(join.Type); ok {
			complement = nt.String()
		}

		infos = append(infos, TypeInfo{
			Name:       t.String(),
			Complement: complement,
			Left:       member(true, false),
			Right:      member(false, true),
			Both:       member(true, true),
		})
	}
	return infos, nil
}

func runTypes(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
		TraceID: opts.runIDs().Generate(),
	}

	infos, err := DescribeTypes()
	if err != nil {
		_ = formatter.Error(MapErrorCode(err, ErrCodeGeneric), err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to describe join types", err)
	}

	if opts.Format == "json" {
		return formatter.Success(infos)
	}

	mark := func(b bool) string {
		if b {
			return "x"
		}
		return "-"
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLEFT ONLY\tBOTH\tRIGHT ONLY\tCOMPLEMENT")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.Name, mark(info.Left), mark(info.Both), mark(info.Right), info.Complement)
	}
	return tw.Flush()
}
