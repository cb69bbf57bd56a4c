package cli

import (
	"errors"

	"github.com/roach88/lattice/internal/propdef"
	"github.com/roach88/lattice/internal/schema"
)

// Error code constants shared by all commands. Definition-level codes
// (E1xx) come from the schema validator and pass through unchanged.
const (
	ErrCodeGeneric    = "E001" // unknown error
	ErrCodeBadInput   = "E002" // malformed input JSON
	ErrCodeLoadFailed = "E003" // definitions missing or failed to compile
	ErrCodeStore      = "E004" // evaluation log error
	ErrCodeCycle      = "E010" // cyclic property definitions
	ErrCodeEval       = "E020" // evaluation failure
)

// loadSchema loads a definitions directory and builds its schema.
// Load failures (missing dir, broken CUE) are command errors (exit 2);
// build failures (validation, cycles) are definition failures (exit 1).
// Both are reported through the formatter before returning.
func loadSchema(f *OutputFormatter, defsDir string) (*schema.Schema, error) {
	f.VerboseLog("Loading definitions from %s", defsDir)

	decls, err := propdef.LoadDir(defsDir)
	if err != nil {
		f.Error(ErrCodeLoadFailed, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "load definitions", err)
	}
	f.VerboseLog("Compiled %d property declaration(s)", len(decls))

	sch, err := schema.Build(decls)
	if err != nil {
		reportBuildError(f, err)
		return nil, WrapExitError(ExitFailure, "build schema", err)
	}
	f.VerboseLog("Schema hash %s", sch.Hash())

	return sch, nil
}

// reportBuildError renders validation or cycle errors through the
// formatter, one entry per defect.
func reportBuildError(f *OutputFormatter, err error) {
	var verrs schema.ValidationErrors
	if errors.As(err, &verrs) {
		for _, ve := range verrs {
			f.Error(ve.Code, ve.Error(), nil)
		}
		return
	}

	var cerr *schema.CycleError
	if errors.As(err, &cerr) {
		f.Error(ErrCodeCycle, cerr.Error(), map[string]any{
			"members": cerr.Members,
			"path":    cerr.Path,
		})
		return
	}

	f.Error(ErrCodeGeneric, err.Error(), nil)
}
