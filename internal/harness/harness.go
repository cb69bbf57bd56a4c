package harness

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/propdef"
	"github.com/roach88/lattice/internal/schema"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Order []ir.Name
	Cases []CaseResult
}

// CaseResult is the outcome of one case: either a record with its
// trace, or the evaluation error.
type CaseResult struct {
	Input  ir.Value
	Record ir.Record
	Trace  *eval.Trace
	Err    error
}

// Run compiles the scenario's definitions, evaluates every case, and
// checks every expectation. Returns the full result on success; the
// first failed expectation aborts with an error naming the case.
func Run(scenario *Scenario) (*Result, error) {
	sch, err := compileDefs(scenario.Defs)
	if err != nil {
		return nil, err
	}

	result := &Result{Order: sch.Order()}

	for i, c := range scenario.Cases {
		input, err := ir.FromGo(c.Input)
		if err != nil {
			return nil, fmt.Errorf("cases[%d]: input: %w", i, err)
		}

		rec, trace, evalErr := eval.EvaluateTraced(sch, input)
		result.Cases = append(result.Cases, CaseResult{
			Input:  input,
			Record: rec,
			Trace:  trace,
			Err:    evalErr,
		})

		if err := checkCase(i, c, rec, evalErr, sch.Order()); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// compileDefs unifies the listed CUE files into one schema.
func compileDefs(paths []string) (*schema.Schema, error) {
	var sources []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read definitions: %w", err)
		}
		sources = append(sources, string(data))
	}

	decls, err := propdef.LoadString(strings.Join(sources, "\n"))
	if err != nil {
		return nil, fmt.Errorf("compile definitions: %w", err)
	}

	sch, err := schema.Build(decls)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}

// checkCase compares one case's outcome against its expectation.
func checkCase(idx int, c Case, rec ir.Record, evalErr error, order []ir.Name) error {
	switch {
	case c.Expect.Error != nil:
		if evalErr == nil {
			return fmt.Errorf("cases[%d]: expected error %s on %q, evaluation succeeded",
				idx, c.Expect.Error.Code, c.Expect.Error.Property)
		}
		var ee *eval.EvalError
		if !errors.As(evalErr, &ee) {
			return fmt.Errorf("cases[%d]: expected EvalError, got %v", idx, evalErr)
		}
		if string(ee.Code) != c.Expect.Error.Code {
			return fmt.Errorf("cases[%d]: expected error code %s, got %s",
				idx, c.Expect.Error.Code, ee.Code)
		}
		if string(ee.Property) != c.Expect.Error.Property {
			return fmt.Errorf("cases[%d]: expected error on property %q, got %q",
				idx, c.Expect.Error.Property, ee.Property)
		}
		return nil

	case evalErr != nil:
		return fmt.Errorf("cases[%d]: evaluation failed: %w", idx, evalErr)

	case c.Expect.Record != nil:
		want, err := ir.FromGo(map[string]any(c.Expect.Record))
		if err != nil {
			return fmt.Errorf("cases[%d]: expected record: %w", idx, err)
		}
		if !ir.Equal(want, rec.Object()) {
			wantJSON, _ := ir.MarshalCanonical(want)
			gotJSON, _ := ir.MarshalCanonical(rec)
			return fmt.Errorf("cases[%d]: record mismatch:\n  want %s\n  got  %s",
				idx, wantJSON, gotJSON)
		}
		return nil

	default: // order expectation
		if len(c.Expect.Order) != len(order) {
			return fmt.Errorf("cases[%d]: expected order of %d properties, schema has %d",
				idx, len(c.Expect.Order), len(order))
		}
		for i, name := range c.Expect.Order {
			if ir.Name(name) != order[i] {
				return fmt.Errorf("cases[%d]: order[%d]: expected %q, got %q",
					idx, i, name, order[i])
			}
		}
		return nil
	}
}
