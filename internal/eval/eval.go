package eval

import (
	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/schema"
)

// Evaluate computes all properties of the schema for one input.
//
// The walk follows schema.Order, so every requirement of a property is
// bound before the property's clauses are consulted. Dispatch per
// property is first-match-wins over the clause list; once a clause is
// selected the decision is final - a body error is not a reason to try
// the next clause.
//
// On success the returned Record binds every declared property exactly
// once. On failure the error is a *EvalError (or wraps one) and the
// partial record is discarded.
func Evaluate(s *schema.Schema, input ir.Value) (ir.Record, error) {
	rec, _, err := run(s, input, false)
	return rec, err
}

// EvaluateTraced is Evaluate plus a Trace recording, per property in
// evaluation order, the clause index selected and the value produced.
func EvaluateTraced(s *schema.Schema, input ir.Value) (ir.Record, *Trace, error) {
	rec, trace, err := run(s, input, true)
	return rec, trace, err
}

func run(s *schema.Schema, input ir.Value, traced bool) (ir.Record, *Trace, error) {
	rec := make(ir.Record, s.Len())

	var trace *Trace
	if traced {
		trace = &Trace{
			SchemaHash: s.Hash(),
			Input:      input,
			Steps:      make([]Step, 0, s.Len()),
		}
	}

	for _, name := range s.Order() {
		decl, ok := s.Decl(name)
		if !ok {
			// Order is derived from the declarations; a name without a
			// declaration means the schema was not produced by Build.
			panic("eval: order names undeclared property " + string(name))
		}

		idx := dispatch(decl, input, rec)
		if idx < 0 {
			return nil, nil, newEvalError(ErrCodeNoMatchingClause, name, -1, rec, nil)
		}

		value, err := decl.Clauses[idx].Body(input, rec)
		if err != nil {
			return nil, nil, newEvalError(ErrCodeBodyFailed, name, idx, rec, err)
		}
		if value == nil {
			return nil, nil, newEvalError(ErrCodeNilValue, name, idx, rec, nil)
		}

		rec[name] = value
		if traced {
			trace.Steps = append(trace.Steps, Step{
				Property: name,
				Clause:   idx,
				Value:    value,
			})
		}
	}

	return rec, trace, nil
}

// dispatch returns the index of the first clause whose pattern and
// guard both hold, or -1 when none does. A nil pattern always matches
// and a nil guard always holds, so a clause with neither is an
// unconditional fallback.
func dispatch(decl ir.PropertyDecl, input ir.Value, partial ir.Record) int {
	for i, clause := range decl.Clauses {
		if clause.Pattern != nil && !clause.Pattern(partial) {
			continue
		}
		if clause.Guard != nil && !clause.Guard(input, partial) {
			continue
		}
		return i
	}
	return -1
}
