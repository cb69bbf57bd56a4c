package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	Input string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{}

	cmd := &cobra.Command{
		Use:   "trace <defs-dir>",
		Short: "Evaluate one input and print the clause-dispatch trace",
		Long: `Like eval, but prints which clause fired for every property, in
evaluation order. The JSON form is canonical and byte-stable, suitable
for diffing two runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input value as JSON (required)")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runTrace(rootOpts *RootOptions, opts *TraceOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	input, err := ir.UnmarshalValue([]byte(opts.Input))
	if err != nil {
		formatter.Error(ErrCodeBadInput, fmt.Sprintf("parse input: %v", err), nil)
		return WrapExitError(ExitCommandError, "parse input", err)
	}

	sch, err := loadSchema(formatter, defsDir)
	if err != nil {
		return err
	}

	_, trace, err := eval.EvaluateTraced(sch, input)
	if err != nil {
		formatter.Error(ErrCodeEval, err.Error(), nil)
		return WrapExitError(ExitFailure, "evaluate", err)
	}

	if rootOpts.Format == "json" {
		data, err := trace.MarshalCanonical()
		if err != nil {
			return WrapExitError(ExitFailure, "render trace", err)
		}
		fmt.Fprintln(formatter.Writer, string(data))
		return nil
	}

	for i, step := range trace.Steps {
		value, err := ir.MarshalCanonical(step.Value)
		if err != nil {
			return WrapExitError(ExitFailure, "render trace", err)
		}
		fmt.Fprintf(formatter.Writer, "%2d. %s [clause %d] = %s\n", i+1, step.Property, step.Clause, value)
	}
	return nil
}
