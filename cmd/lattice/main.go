package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/lattice/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own errors through the formatter and
		// return an ExitError carrying the code. Anything else is a
		// cobra flag/usage error that still needs printing.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCommandError)
	}
}
