// Package ir provides the canonical data model for lattice property
// schemas: property names, clause declarations, and the constrained
// value types that property bodies produce.
//
// This package contains type definitions and serialization only. All
// other internal packages import ir; ir imports nothing internal. This
// keeps the data model the foundational layer with no circular
// dependencies.
//
// Key design constraints:
//   - NO float types anywhere - use Int (int64) for numbers. Records are
//     content-addressed and evaluations must be bit-deterministic.
//   - All hashing goes through RFC 8785 canonical JSON with domain
//     separation (hash.go).
//   - Clause predicates and bodies are plain Go functions over the
//     partial record, not syntax. The surface layer (internal/propdef)
//     compiles syntax down to these functions.
package ir
