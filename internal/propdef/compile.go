package propdef

import (
	"fmt"
	"sort"

	"cuelang.org/go/cue"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/lattice/internal/ir"
)

// DefError represents a definition error with source position.
type DefError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DefError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile turns the "property" struct of a built CUE value into
// declarations, in source order. Each field of the struct is one
// property; its "clauses" list is dispatch order.
func Compile(ctx *cue.Context, root cue.Value) ([]ir.PropertyDecl, error) {
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	propsVal := root.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return nil, &DefError{
			Field:   "property",
			Message: "no property definitions found",
			Pos:     root.Pos(),
		}
	}

	iter, err := propsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var decls []ir.PropertyDecl
	for iter.Next() {
		decl, err := compileProperty(ctx, ir.Name(iter.Label()), iter.Value())
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}

	return decls, nil
}

// compileProperty compiles one property definition: its clause list and
// the statically extracted requirement set.
func compileProperty(ctx *cue.Context, name ir.Name, v cue.Value) (ir.PropertyDecl, error) {
	decl := ir.PropertyDecl{Name: name}

	clausesVal := v.LookupPath(cue.ParsePath("clauses"))
	if !clausesVal.Exists() {
		return decl, &DefError{
			Field:   fmt.Sprintf("property.%s.clauses", name),
			Message: "clauses list is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := clausesVal.List()
	if err != nil {
		return decl, formatCUEError(err)
	}

	requires := make(map[ir.Name]bool)
	for iter.Next() {
		clause, reqs, err := compileClause(ctx, name, len(decl.Clauses), iter.Value())
		if err != nil {
			return decl, err
		}
		decl.Clauses = append(decl.Clauses, clause)
		for _, r := range reqs {
			// A self-reference stays in the set: it becomes a self-loop
			// in the graph and the cycle detector reports it.
			requires[r] = true
		}
	}

	if len(decl.Clauses) == 0 {
		return decl, &DefError{
			Field:   fmt.Sprintf("property.%s.clauses", name),
			Message: "at least one clause is required",
			Pos:     clausesVal.Pos(),
		}
	}

	// The requirement set is the union across all clauses. A clause
	// that never fires still contributes its references; extraction is
	// static and the evaluation order must cover every clause that
	// could fire.
	for r := range requires {
		decl.Requires = append(decl.Requires, r)
	}
	sort.Slice(decl.Requires, func(i, j int) bool {
		return decl.Requires[i] < decl.Requires[j]
	})

	return decl, nil
}

// compileClause compiles one clause: optional match pattern, optional
// when guard, required value body. Returns the clause and every
// property name it references.
func compileClause(ctx *cue.Context, prop ir.Name, idx int, v cue.Value) (ir.Clause, []ir.Name, error) {
	var clause ir.Clause
	var reqs []ir.Name

	field := func(sub string) string {
		return fmt.Sprintf("property.%s.clauses[%d].%s", prop, idx, sub)
	}

	matchVal := v.LookupPath(cue.ParsePath("match"))
	if matchVal.Exists() {
		pattern, names, err := compileMatch(matchVal)
		if err != nil {
			return clause, nil, err
		}
		clause.Pattern = pattern
		reqs = append(reqs, names...)
	}

	whenVal := v.LookupPath(cue.ParsePath("when"))
	if whenVal.Exists() {
		src, err := whenVal.String()
		if err != nil {
			return clause, nil, formatCUEError(err)
		}
		prog, err := compileProgram(ctx, src, whenVal.Pos())
		if err != nil {
			return clause, nil, err
		}
		// A guard that fails to evaluate does not match. Errors here
		// mean "this clause is not for this input", not "abort".
		clause.Guard = func(input ir.Value, partial ir.Record) bool {
			ok, err := prog.evalBool(input, partial)
			return err == nil && ok
		}
		reqs = append(reqs, propRefs(src)...)
	}

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return clause, nil, &DefError{
			Field:   field("value"),
			Message: "value expression is required",
			Pos:     v.Pos(),
		}
	}
	src, err := valueVal.String()
	if err != nil {
		return clause, nil, formatCUEError(err)
	}
	prog, err := compileProgram(ctx, src, valueVal.Pos())
	if err != nil {
		return clause, nil, err
	}
	clause.Body = prog.eval
	reqs = append(reqs, propRefs(src)...)

	return clause, reqs, nil
}

// compileMatch compiles a match struct into a pattern requiring every
// listed property to be bound and equal to its literal.
func compileMatch(v cue.Value) (ir.PatternFunc, []ir.Name, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, nil, formatCUEError(err)
	}

	var patterns []ir.PatternFunc
	var names []ir.Name
	for iter.Next() {
		name := ir.Name(iter.Label())
		want, err := decodeValue(iter.Value())
		if err != nil {
			return nil, nil, &DefError{
				Field:   fmt.Sprintf("match.%s", name),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		patterns = append(patterns, ir.BoundEq(name, want))
		names = append(names, name)
	}

	return ir.AllOf(patterns...), names, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &DefError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
