package testutil

import (
	"fmt"

	"github.com/roach88/lattice/internal/ir"
)

// ConstDecl declares a property that always evaluates to v, ignoring
// input and partial result.
func ConstDecl(name ir.Name, v ir.Value) ir.PropertyDecl {
	return ir.PropertyDecl{
		Name: name,
		Clauses: []ir.Clause{
			{Body: func(ir.Value, ir.Record) (ir.Value, error) { return v, nil }},
		},
	}
}

// InputDecl declares a property computed from the input alone.
// The input must be an ir.Int; anything else fails the body.
func InputDecl(name ir.Name, f func(int64) int64) ir.PropertyDecl {
	return ir.PropertyDecl{
		Name: name,
		Clauses: []ir.Clause{
			{Body: IntBody(f)},
		},
	}
}

// DerivedDecl declares a property with a single clause over the given
// requirements.
func DerivedDecl(name ir.Name, requires []ir.Name, body ir.BodyFunc) ir.PropertyDecl {
	return ir.PropertyDecl{
		Name:     name,
		Clauses:  []ir.Clause{{Body: body}},
		Requires: requires,
	}
}

// Decl assembles a multi-clause declaration. Clause order is dispatch
// order.
func Decl(name ir.Name, requires []ir.Name, clauses ...ir.Clause) ir.PropertyDecl {
	return ir.PropertyDecl{
		Name:     name,
		Clauses:  clauses,
		Requires: requires,
	}
}

// IntBody wraps an int64 function as a BodyFunc over the input.
func IntBody(f func(int64) int64) ir.BodyFunc {
	return func(input ir.Value, _ ir.Record) (ir.Value, error) {
		n, ok := input.(ir.Int)
		if !ok {
			return nil, fmt.Errorf("expected Int input, got %T", input)
		}
		return ir.Int(f(int64(n))), nil
	}
}

// IntsBody wraps a function over the input and the int values of the
// named required properties, in order. Fails if any is unbound or not
// an Int.
func IntsBody(names []ir.Name, f func(input int64, bound []int64) int64) ir.BodyFunc {
	return func(input ir.Value, partial ir.Record) (ir.Value, error) {
		n, ok := input.(ir.Int)
		if !ok {
			return nil, fmt.Errorf("expected Int input, got %T", input)
		}
		bound := make([]int64, len(names))
		for i, name := range names {
			v, ok := partial.Get(name)
			if !ok {
				return nil, fmt.Errorf("property %q not bound", name)
			}
			b, ok := v.(ir.Int)
			if !ok {
				return nil, fmt.Errorf("property %q is %T, expected Int", name, v)
			}
			bound[i] = int64(b)
		}
		return ir.Int(f(int64(n), bound)), nil
	}
}

// IntGuard wraps an int64 predicate over a single bound property as a
// GuardFunc. The guard fails closed: unbound or non-int means no match.
func IntGuard(name ir.Name, pred func(int64) bool) ir.GuardFunc {
	return func(_ ir.Value, partial ir.Record) bool {
		v, ok := partial.Get(name)
		if !ok {
			return false
		}
		n, ok := v.(ir.Int)
		if !ok {
			return false
		}
		return pred(int64(n))
	}
}
