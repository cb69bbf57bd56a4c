// Package eval executes a built schema against one input value.
//
// Evaluation walks the schema's resolved order, a permutation of all
// declared properties consistent with every dependency edge. Per
// property, clauses are scanned in declaration order and the first one
// whose pattern and guard both hold against the current partial record
// fires; its body produces the property's value, which is bound exactly
// once. No backtracking: a body error or an exhausted clause list is
// fatal for the whole evaluation.
//
// Every Evaluate call works on a fresh Record. Evaluations share no
// mutable state, so a single Schema can serve concurrent callers.
//
// Determinism: for a fixed schema and input, the order walked, the
// clauses selected, and the values produced are identical on every run.
// Anything that would break that (wall time, randomness, map iteration
// order) is excluded by construction; run tokens are the one random
// element and they never influence a result.
package eval
