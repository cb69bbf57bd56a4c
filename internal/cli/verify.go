package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lattice/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	DB string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify <defs-dir>",
		Short: "Verify the evaluation log against the definitions",
		Long: `Replay every logged input through the current definitions and compare
result hashes and dispatch decisions. Entries logged under a different
schema are skipped. Any divergence means the determinism guarantee is
broken - or the definitions changed without changing their structure.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "evaluation log path (required)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runVerify(rootOpts *RootOptions, opts *VerifyOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	sch, err := loadSchema(formatter, defsDir)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open evaluation log", err)
	}
	defer st.Close()

	report, err := st.Verify(cmd.Context(), sch)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "verify", err)
	}

	if rootOpts.Format == "json" {
		if err := formatter.JSON(map[string]any{
			"checked":    report.Checked,
			"skipped":    report.Skipped,
			"mismatches": report.Mismatches,
			"ok":         report.OK(),
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "checked %d, skipped %d, mismatches %d\n",
			report.Checked, report.Skipped, len(report.Mismatches))
		for _, m := range report.Mismatches {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", m.EvaluationID, m.Reason)
		}
	}

	if !report.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("%d evaluation(s) diverged on replay", len(report.Mismatches)))
	}
	return nil
}
