package store

import (
	"fmt"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
)

// Evaluation is one log entry: what was evaluated and what came out.
type Evaluation struct {
	ID            string
	RunToken      string
	SchemaHash    string
	Input         ir.Value
	Record        ir.Record
	RecordHash    string
	Seq           int64
	EngineVersion string
	IRVersion     string
	Dispatches    []Dispatch
}

// Dispatch is one property binding within an evaluation, in evaluation
// order.
type Dispatch struct {
	Position int
	Property ir.Name
	Clause   int
	Value    ir.Value
}

// NewEvaluation assembles a log entry from a traced evaluation. The ID
// is content-addressed over (run token, schema hash, input, seq); the
// record hash is computed from the trace's record.
func NewEvaluation(runToken string, trace *eval.Trace, seq int64) (Evaluation, error) {
	id, err := ir.EvalID(runToken, trace.SchemaHash, trace.Input, seq)
	if err != nil {
		return Evaluation{}, fmt.Errorf("new evaluation: %w", err)
	}

	rec := trace.Record()
	recHash, err := ir.RecordHash(rec)
	if err != nil {
		return Evaluation{}, fmt.Errorf("new evaluation: %w", err)
	}

	dispatches := make([]Dispatch, len(trace.Steps))
	for i, step := range trace.Steps {
		dispatches[i] = Dispatch{
			Position: i,
			Property: step.Property,
			Clause:   step.Clause,
			Value:    step.Value,
		}
	}

	return Evaluation{
		ID:            id,
		RunToken:      runToken,
		SchemaHash:    trace.SchemaHash,
		Input:         trace.Input,
		Record:        rec,
		RecordHash:    recHash,
		Seq:           seq,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Dispatches:    dispatches,
	}, nil
}
