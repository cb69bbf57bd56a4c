package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without ambiguity.
const (
	DomainSchema = "lattice/schema/v1"
	DomainRecord = "lattice/record/v1"
	DomainEval   = "lattice/eval/v1"
)

// HashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordHash computes the content-addressed hash of a result record.
// Two records hash equal iff they bind the same names to structurally
// equal values, which is what the determinism checks compare.
func RecordHash(rec Record) (string, error) {
	canonical, err := MarshalCanonical(rec)
	if err != nil {
		return "", fmt.Errorf("RecordHash: failed to marshal: %w", err)
	}
	return HashWithDomain(DomainRecord, canonical), nil
}

// EvalID computes the content-addressed ID of one logged evaluation.
// It is stable across restarts and replays given the same inputs.
//
// The run token is included: the same input evaluated under two runs is
// two log entries. The record is NOT included - the ID identifies "what
// was evaluated", and the determinism verifier recomputes the record
// from the input independently.
func EvalID(runToken, schemaHash string, input Value, seq int64) (string, error) {
	obj := Object{
		"run_token":   String(runToken),
		"schema_hash": String(schemaHash),
		"input":       input,
		"seq":         Int(seq),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EvalID: failed to marshal: %w", err)
	}

	return HashWithDomain(DomainEval, canonical), nil
}

// MustRecordHash is like RecordHash but panics on error.
// Use only in tests or when the record is known to be valid.
func MustRecordHash(rec Record) string {
	h, err := RecordHash(rec)
	if err != nil {
		panic(err)
	}
	return h
}

// MustEvalID is like EvalID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEvalID(runToken, schemaHash string, input Value, seq int64) string {
	id, err := EvalID(runToken, schemaHash, input, seq)
	if err != nil {
		panic(err)
	}
	return id
}
