package schema

import (
	"fmt"

	"github.com/roach88/lattice/internal/ir"
)

// validateDecls runs the structural pass over a declaration set.
// Returns all errors found (does not fail-fast).
//
// A property requiring itself is NOT flagged here: a self-requirement
// is a self-loop in the graph and belongs to the cycle detector, which
// reports it with the rest of the cyclic set.
func validateDecls(decls []ir.PropertyDecl) ValidationErrors {
	var errs ValidationErrors

	if len(decls) == 0 {
		errs = append(errs, ValidationError{
			Field:   "declarations",
			Message: "at least one property declaration is required",
			Code:    ErrEmptyDeclarations,
		})
		return errs
	}

	declared := make(map[ir.Name]bool, len(decls))
	for i, decl := range decls {
		if decl.Name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("declarations[%d].name", i),
				Message: "property name must be non-empty",
				Code:    ErrEmptyName,
			})
			continue
		}

		if declared[decl.Name] {
			errs = append(errs, ValidationError{
				Property: decl.Name,
				Field:    fmt.Sprintf("declarations[%d].name", i),
				Message:  fmt.Sprintf("duplicate property name: %q", decl.Name),
				Code:     ErrDuplicateName,
			})
		}
		declared[decl.Name] = true

		if len(decl.Clauses) == 0 {
			errs = append(errs, ValidationError{
				Property: decl.Name,
				Field:    fmt.Sprintf("declarations[%d].clauses", i),
				Message:  "property must have at least one clause",
				Code:     ErrNoClauses,
			})
		}

		for j, clause := range decl.Clauses {
			if clause.Body == nil {
				errs = append(errs, ValidationError{
					Property: decl.Name,
					Field:    fmt.Sprintf("declarations[%d].clauses[%d].body", i, j),
					Message:  "clause body must be non-nil",
					Code:     ErrNilBody,
				})
			}
		}
	}

	for i, decl := range decls {
		for _, req := range decl.Requires {
			if !declared[req] {
				errs = append(errs, ValidationError{
					Property: decl.Name,
					Field:    fmt.Sprintf("declarations[%d].requires", i),
					Message:  fmt.Sprintf("requires undeclared property %q", req),
					Code:     ErrUnknownRequire,
				})
			}
		}
	}

	return errs
}
