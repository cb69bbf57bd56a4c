package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/lattice/internal/ir"
)

// marshalValue converts a value to canonical JSON TEXT for storage.
// Canonical form means a logged value round-trips byte-identically.
func marshalValue(v ir.Value) (string, error) {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	return string(data), nil
}

// marshalRecord converts a record to canonical JSON TEXT for storage.
func marshalRecord(rec ir.Record) (string, error) {
	data, err := ir.MarshalCanonical(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return string(data), nil
}

// unmarshalValue parses canonical JSON TEXT back to a value. The log
// only holds values the engine produced, so null is legal here.
func unmarshalValue(data string) (ir.Value, error) {
	v, err := ir.UnmarshalStored([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}

// unmarshalRecord parses canonical JSON TEXT back to a record.
func unmarshalRecord(data string) (ir.Record, error) {
	if data == "" || data == "{}" {
		return ir.Record{}, nil
	}
	var obj ir.Object
	if err := json.Unmarshal([]byte(data), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	rec := make(ir.Record, len(obj))
	for k, v := range obj {
		rec[ir.Name(k)] = v
	}
	return rec, nil
}
