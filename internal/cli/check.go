package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <defs-dir>",
		Short: "Compile definitions and resolve the evaluation order",
		Long: `Compile CUE property definitions, validate them, detect dependency
cycles, and print the resolved evaluation order. No evaluation happens;
this is the fast feedback loop for editing definitions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
}

func runCheck(opts *RootOptions, defsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sch, err := loadSchema(formatter, defsDir)
	if err != nil {
		return err
	}

	order := sch.Order()
	if opts.Format == "json" {
		return formatter.JSON(map[string]any{
			"properties":  sch.Len(),
			"order":       order,
			"schema_hash": sch.Hash(),
		})
	}

	fmt.Fprintf(formatter.Writer, "%d properties, evaluation order:\n", sch.Len())
	for i, name := range order {
		fmt.Fprintf(formatter.Writer, "  %d. %s\n", i+1, name)
	}
	return nil
}
