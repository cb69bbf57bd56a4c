package store

import (
	"context"
	"fmt"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/schema"
)

// Mismatch describes one log entry whose replay diverged.
type Mismatch struct {
	EvaluationID string
	Reason       string
}

// VerifyReport summarizes a determinism check of the log against a
// schema.
type VerifyReport struct {
	Checked    int
	Skipped    int // entries logged under a different schema hash
	Mismatches []Mismatch
}

// OK reports whether every checked entry replayed identically.
func (r *VerifyReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Verify replays every logged input through the schema and compares
// record hashes and dispatch decisions. Entries whose schema hash does
// not match the given schema are skipped, not failed: a definition
// change is not a determinism violation.
//
// A mismatch means either the engine is non-deterministic or the
// definitions changed without changing the schema hash (same structure,
// different expressions). Both are worth a loud report.
func (s *Store) Verify(ctx context.Context, sch *schema.Schema) (*VerifyReport, error) {
	evals, err := s.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	report := &VerifyReport{}
	for _, ev := range evals {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verify: %w", err)
		}

		if ev.SchemaHash != sch.Hash() {
			report.Skipped++
			continue
		}
		report.Checked++

		rec, trace, err := eval.EvaluateTraced(sch, ev.Input)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{
				EvaluationID: ev.ID,
				Reason:       fmt.Sprintf("replay failed: %v", err),
			})
			continue
		}

		recHash, err := ir.RecordHash(rec)
		if err != nil {
			return nil, fmt.Errorf("verify: hash replayed record: %w", err)
		}
		if recHash != ev.RecordHash {
			report.Mismatches = append(report.Mismatches, Mismatch{
				EvaluationID: ev.ID,
				Reason: fmt.Sprintf("record hash diverged: logged %s, replayed %s",
					ev.RecordHash, recHash),
			})
			continue
		}

		if m := compareDispatches(ev.Dispatches, trace.Steps); m != "" {
			report.Mismatches = append(report.Mismatches, Mismatch{
				EvaluationID: ev.ID,
				Reason:       m,
			})
		}
	}

	return report, nil
}

// compareDispatches checks that replayed dispatch decisions match the
// logged ones. Returns a description of the first divergence, or "".
func compareDispatches(logged []Dispatch, replayed []eval.Step) string {
	if len(logged) != len(replayed) {
		return fmt.Sprintf("dispatch count diverged: logged %d, replayed %d",
			len(logged), len(replayed))
	}
	for i, d := range logged {
		step := replayed[i]
		if d.Property != step.Property {
			return fmt.Sprintf("dispatch %d: property diverged: logged %q, replayed %q",
				i, d.Property, step.Property)
		}
		if d.Clause != step.Clause {
			return fmt.Sprintf("dispatch %d: property %q clause diverged: logged %d, replayed %d",
				i, d.Property, d.Clause, step.Clause)
		}
		if !ir.Equal(d.Value, step.Value) {
			return fmt.Sprintf("dispatch %d: property %q value diverged", i, d.Property)
		}
	}
	return ""
}
