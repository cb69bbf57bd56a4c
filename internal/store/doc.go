// Package store persists an append-only log of evaluations in SQLite.
//
// Each log entry records what was evaluated (run token, schema hash,
// input) and what came out (the full record, its hash, and the
// per-property dispatch decisions). Entries are content-addressed:
// writing the same evaluation twice is a no-op.
//
// Ordering is by logical sequence number only. Wall-clock time never
// appears in the log, so a replayed run produces byte-identical rows.
//
// The log exists to make the determinism guarantee checkable after the
// fact: Verify replays every logged input through the current schema
// and flags any entry whose recomputed record hash diverges.
package store
