// Package schema turns property declarations into an immutable,
// validated evaluation schema.
//
// Construction is the only fallible, one-time step and happens in four
// passes, leaves first:
//
//  1. Structural validation (validate.go) - duplicate names, empty
//     clause lists, references to undeclared properties. All errors are
//     collected, not fail-fast.
//  2. Graph building (graph.go) - one "must precede" edge r -> p for
//     every r a declaration of p requires. Edge sets, not multisets.
//  3. Cycle detection (cycle.go) - Tarjan's strongly connected
//     components over the dependency graph. Any SCC with more than one
//     member, or a single member with a self-loop, is fatal: the
//     CycleError carries the full offending vertex set plus one sample
//     path for the message.
//  4. Topological sorting (sort.go) - Kahn's algorithm; ties between
//     unrelated properties are always broken by declaration index, so
//     the evaluation order is reproducible across builds.
//
// A built Schema never changes and is safe for unsynchronized
// concurrent use by any number of simultaneous evaluations.
package schema
