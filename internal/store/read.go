package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/lattice/internal/ir"
)

// ErrNotFound is returned when a requested evaluation does not exist.
var ErrNotFound = errors.New("evaluation not found")

// ReadEvaluation returns one log entry by ID, dispatch rows included.
func (s *Store) ReadEvaluation(ctx context.Context, id string) (Evaluation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, run_token, schema_hash, input, record, record_hash, seq, engine_version, ir_version
		FROM evaluations
		WHERE id = ?
	`, id)

	ev, err := scanEvaluation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Evaluation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Evaluation{}, err
	}

	ev.Dispatches, err = s.readDispatches(ctx, ev.ID)
	if err != nil {
		return Evaluation{}, err
	}

	return ev, nil
}

// ReadRun returns all log entries for a run token, ordered
// deterministically: seq ASC, id COLLATE BINARY ASC.
func (s *Store) ReadRun(ctx context.Context, runToken string) ([]Evaluation, error) {
	return s.readEvaluations(ctx, `
		SELECT id, run_token, schema_hash, input, record, record_hash, seq, engine_version, ir_version
		FROM evaluations
		WHERE run_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runToken)
}

// ReadAll returns the whole log in deterministic order.
func (s *Store) ReadAll(ctx context.Context) ([]Evaluation, error) {
	return s.readEvaluations(ctx, `
		SELECT id, run_token, schema_hash, input, record, record_hash, seq, engine_version, ir_version
		FROM evaluations
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

func (s *Store) readEvaluations(ctx context.Context, query string, args ...any) ([]Evaluation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	evals := []Evaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		evals = append(evals, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}

	for i := range evals {
		evals[i].Dispatches, err = s.readDispatches(ctx, evals[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return evals, nil
}

// readDispatches returns the dispatch rows of one evaluation in
// position order.
func (s *Store) readDispatches(ctx context.Context, evaluationID string) ([]Dispatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, property, clause_index, value
		FROM dispatches
		WHERE evaluation_id = ?
		ORDER BY position ASC
	`, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("query dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []Dispatch
	for rows.Next() {
		var d Dispatch
		var property, valueJSON string
		if err := rows.Scan(&d.Position, &property, &d.Clause, &valueJSON); err != nil {
			return nil, fmt.Errorf("scan dispatch: %w", err)
		}
		d.Property = ir.Name(property)
		d.Value, err = unmarshalValue(valueJSON)
		if err != nil {
			return nil, fmt.Errorf("dispatch %d: %w", d.Position, err)
		}
		dispatches = append(dispatches, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatches: %w", err)
	}

	return dispatches, nil
}

// scanner abstracts sql.Row and sql.Rows for scanEvaluation.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row scanner) (Evaluation, error) {
	var ev Evaluation
	var inputJSON, recordJSON string

	if err := row.Scan(
		&ev.ID,
		&ev.RunToken,
		&ev.SchemaHash,
		&inputJSON,
		&recordJSON,
		&ev.RecordHash,
		&ev.Seq,
		&ev.EngineVersion,
		&ev.IRVersion,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, err
		}
		return Evaluation{}, fmt.Errorf("scan evaluation: %w", err)
	}

	var err error
	ev.Input, err = unmarshalValue(inputJSON)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluation %s input: %w", ev.ID, err)
	}
	ev.Record, err = unmarshalRecord(recordJSON)
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluation %s record: %w", ev.ID, err)
	}

	return ev, nil
}
