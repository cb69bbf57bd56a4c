package eval

import (
	"github.com/roach88/lattice/internal/ir"
)

// Step records one property binding: which clause fired and what it
// produced.
type Step struct {
	Property ir.Name  `json:"property"`
	Clause   int      `json:"clause"`
	Value    ir.Value `json:"value"`
}

// Trace is the full dispatch record of one evaluation. Steps are in
// evaluation order, which for a deterministic schema makes the whole
// trace reproducible and suitable for golden comparison.
type Trace struct {
	SchemaHash string   `json:"schema_hash"`
	Input      ir.Value `json:"input"`
	Steps      []Step   `json:"steps"`
}

// MarshalCanonical serializes the trace as canonical JSON. Two
// evaluations of the same schema and input produce byte-identical
// output.
func (t *Trace) MarshalCanonical() ([]byte, error) {
	steps := make(ir.Array, len(t.Steps))
	for i, step := range t.Steps {
		steps[i] = ir.Object{
			"property": ir.String(step.Property),
			"clause":   ir.Int(int64(step.Clause)),
			"value":    step.Value,
		}
	}

	return ir.MarshalCanonical(ir.Object{
		"schema_hash": ir.String(t.SchemaHash),
		"input":       t.Input,
		"steps":       steps,
	})
}

// Record reassembles the evaluation result from the trace steps.
func (t *Trace) Record() ir.Record {
	rec := make(ir.Record, len(t.Steps))
	for _, step := range t.Steps {
		rec[step.Property] = step.Value
	}
	return rec
}
