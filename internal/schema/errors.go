package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/lattice/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyDeclarations = "E100" // no declarations supplied
	ErrDuplicateName     = "E101" // property declared more than once
	ErrNoClauses         = "E102" // property has no clauses
	ErrNilBody           = "E103" // clause body is nil
	ErrUnknownRequire    = "E104" // requirement names an undeclared property
	ErrEmptyName         = "E105" // property name is empty
)

// ValidationError represents one structural defect in a declaration set.
type ValidationError struct {
	Property ir.Name `json:"property,omitempty"`
	Field    string  `json:"field"`
	Message  string  `json:"message"`
	Code     string  `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Property, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors aggregates all defects found in one pass. Build
// returns the full list rather than failing fast so callers can report
// every problem at once.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("%d declaration errors: %s", len(e), strings.Join(msgs, "; "))
}

// CycleError reports that the dependency graph is not acyclic.
//
// Members is the complete set of properties participating in some
// cycle, sorted by declaration index; Path is one concrete cycle
// through the first member, used for the message. A CycleError is
// fatal: no Schema is produced.
type CycleError struct {
	Members []ir.Name `json:"members"`
	Path    []ir.Name `json:"path"`
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, len(e.Members))
	for i, m := range e.Members {
		names[i] = string(m)
	}
	if len(e.Path) > 0 {
		steps := make([]string, len(e.Path))
		for i, p := range e.Path {
			steps[i] = string(p)
		}
		return fmt.Sprintf("dependency cycle among properties [%s]: %s",
			strings.Join(names, ", "), strings.Join(steps, " -> "))
	}
	return fmt.Sprintf("dependency cycle among properties [%s]", strings.Join(names, ", "))
}
