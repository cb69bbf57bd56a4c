package store

import (
	"context"
	"fmt"
)

// WriteEvaluation inserts a log entry and its dispatch rows atomically.
// Returns inserted=false when the entry already exists (same ID), in
// which case nothing is written - the log is append-only and
// content-addressed, so duplicate writes are no-ops, never updates.
func (s *Store) WriteEvaluation(ctx context.Context, ev Evaluation) (inserted bool, err error) {
	inputJSON, err := marshalValue(ev.Input)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}
	recordJSON, err := marshalRecord(ev.Record)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write evaluation: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, run_token, schema_hash, input, record, record_hash, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		ev.ID,
		ev.RunToken,
		ev.SchemaHash,
		inputJSON,
		recordJSON,
		ev.RecordHash,
		ev.Seq,
		ev.EngineVersion,
		ev.IRVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write evaluation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write evaluation: rows affected: %w", err)
	}
	if rows == 0 {
		// Already logged. Dispatch rows were written with the original
		// entry; nothing to do.
		return false, nil
	}

	for _, d := range ev.Dispatches {
		valueJSON, err := marshalValue(d.Value)
		if err != nil {
			return false, fmt.Errorf("write dispatch %d: %w", d.Position, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO dispatches
			(evaluation_id, position, property, clause_index, value)
			VALUES (?, ?, ?, ?, ?)
		`,
			ev.ID,
			d.Position,
			string(d.Property),
			d.Clause,
			valueJSON,
		); err != nil {
			return false, fmt.Errorf("write dispatch %d: %w", d.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write evaluation: commit: %w", err)
	}

	return true, nil
}
