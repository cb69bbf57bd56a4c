package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/store"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	Input string
	DB    string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <defs-dir>",
		Short: "Evaluate one input against the definitions",
		Long: `Compile the definitions, evaluate the given input, and print the
resulting record. With --db, the evaluation is appended to the log
under a fresh run token.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Input, "input", "", "input value as JSON (required)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "append to the evaluation log at this path")
	cmd.MarkFlagRequired("input")

	return cmd
}

func runEval(rootOpts *RootOptions, opts *EvalOptions, defsDir string, cmd *cobra.Command) error {
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

	rec, trace, err := eval.EvaluateTraced(sch, input)
	if err != nil {
		formatter.Error(ErrCodeEval, err.Error(), nil)
		return WrapExitError(ExitFailure, "evaluate", err)
	}

	if opts.DB != "" {
		if err := appendToLog(cmd, formatter, opts.DB, trace); err != nil {
			return err
		}
	}

	return printRecord(formatter, rec)
}

// appendToLog writes the traced evaluation to the log under a fresh
// UUIDv7 run token.
func appendToLog(cmd *cobra.Command, f *OutputFormatter, path string, trace *eval.Trace) error {
	st, err := store.Open(path)
	if err != nil {
		f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open evaluation log", err)
	}
	defer st.Close()

	runToken := eval.UUIDv7Generator{}.Generate()
	ev, err := store.NewEvaluation(runToken, trace, 1)
	if err != nil {
		f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "build log entry", err)
	}

	if _, err := st.WriteEvaluation(cmd.Context(), ev); err != nil {
		f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitFailure, "write evaluation log", err)
	}

	f.VerboseLog("Logged evaluation %s under run %s", ev.ID, runToken)
	return nil
}

// printRecord renders a result record: canonical-ordered "name = value"
// lines in text mode, the canonical object in JSON mode.
func printRecord(f *OutputFormatter, rec ir.Record) error {
	if f.Format == "json" {
		return f.JSON(map[string]any{"record": rec.Object()})
	}

	for _, name := range rec.Names() {
		value, _ := rec.Get(name)
		data, err := ir.MarshalCanonical(value)
		if err != nil {
			return WrapExitError(ExitFailure, "render record", err)
		}
		fmt.Fprintf(f.Writer, "%s = %s\n", name, data)
	}
	return nil
}
