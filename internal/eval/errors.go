package eval

import (
	"errors"
	"fmt"

	"github.com/roach88/lattice/internal/ir"
)

// EvalErrorCode categorizes evaluation failures.
type EvalErrorCode string

const (
	// ErrCodeNoMatchingClause indicates no clause of a property matched
	// the input and partial record. Dispatch is total or fatal; there is
	// no "skip this property" outcome.
	ErrCodeNoMatchingClause EvalErrorCode = "NO_MATCHING_CLAUSE"

	// ErrCodeBodyFailed indicates a clause body returned an error.
	ErrCodeBodyFailed EvalErrorCode = "BODY_FAILED"

	// ErrCodeNilValue indicates a clause body returned a nil value with
	// no error. Properties are total: every successful body must produce
	// a value (ir.Null is a value, nil is a bug in the body).
	ErrCodeNilValue EvalErrorCode = "NIL_VALUE"
)

// EvalError represents a fatal evaluation failure.
//
// Property names the property being evaluated when the failure occurred,
// Clause is the index of the clause whose body failed (-1 for dispatch
// failures, where no clause was selected), and Partial is the canonical
// serialization of the partial record at the time of failure, so the
// exact evaluation state is reportable and reproducible.
type EvalError struct {
	Code     EvalErrorCode
	Property ir.Name
	Clause   int
	Partial  string
	Err      error
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	switch e.Code {
	case ErrCodeNoMatchingClause:
		return fmt.Sprintf("%s: no clause of property %q matched (partial=%s)",
			e.Code, e.Property, e.Partial)
	case ErrCodeBodyFailed:
		return fmt.Sprintf("%s: property %q clause %d: %v (partial=%s)",
			e.Code, e.Property, e.Clause, e.Err, e.Partial)
	default:
		return fmt.Sprintf("%s: property %q clause %d (partial=%s)",
			e.Code, e.Property, e.Clause, e.Partial)
	}
}

// Unwrap exposes the underlying body error for errors.Is/As.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsDispatchError reports whether err is a dispatch failure (no clause
// matched). Uses errors.As to handle wrapped errors.
func IsDispatchError(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeNoMatchingClause
	}
	return false
}

// newEvalError snapshots the partial record into the error. The
// canonical form is stable across runs, so error messages are as
// reproducible as successful results.
func newEvalError(code EvalErrorCode, property ir.Name, clause int, partial ir.Record, err error) *EvalError {
	snapshot := "{}"
	if data, merr := ir.MarshalCanonical(partial); merr == nil {
		snapshot = string(data)
	}
	return &EvalError{
		Code:     code,
		Property: property,
		Clause:   clause,
		Partial:  snapshot,
		Err:      err,
	}
}
