// Package propdef compiles CUE property definitions into declarations.
//
// Definitions are plain CUE:
//
//	property: p: clauses: [{value: "input + 1"}]
//	property: q: clauses: [
//		{when: "props.p > 0", value: "input * 5"},
//		{match: {p: 3}, value: "input * 5"},
//		{value: "props.p * input"},
//	]
//
// Per clause, "match" compiles to a pattern (every listed property bound
// and equal to the literal), "when" to a guard (a CUE boolean expression
// over input and props), and "value" to the body. A clause with neither
// match nor when is the fallback.
//
// Requirement extraction is static: the union of match keys and
// props.<name> references in when/value expressions. The resulting
// Requires set is what the schema builds its dependency graph from, so
// an expression reading a property it never names this way would race
// the evaluation order; the scan is deliberately conservative.
package propdef
