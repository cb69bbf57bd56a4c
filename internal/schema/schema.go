package schema

import (
	"fmt"
	"slices"
	"sort"

	"github.com/roach88/lattice/internal/ir"
)

// Schema is an immutable, validated property set with its resolved
// evaluation order. Built once per declaration set and reused across
// any number of evaluations; concurrent readers need no coordination
// because nothing mutates a Schema after Build returns.
type Schema struct {
	decls     map[ir.Name]ir.PropertyDecl
	order     []ir.Name
	declIndex map[ir.Name]int
	hash      string
}

// Build constructs a Schema from declarations.
//
// This is the only fallible step and the only place cycle detection
// happens. It validates the declarations structurally (returning
// ValidationErrors with every defect found), builds the dependency
// graph, rejects cyclic graphs with a *CycleError carrying the exact
// offending vertex set, then computes the deterministic evaluation
// order.
func Build(decls []ir.PropertyDecl) (*Schema, error) {
	if errs := validateDecls(decls); len(errs) > 0 {
		return nil, errs
	}

	declIndex := make(map[ir.Name]int, len(decls))
	byName := make(map[ir.Name]ir.PropertyDecl, len(decls))
	for i, decl := range decls {
		declIndex[decl.Name] = i
		byName[decl.Name] = decl
	}

	graph := BuildGraph(decls)

	if members := FindCycle(graph); len(members) > 0 {
		// Report members in declaration order - the order the author
		// wrote them is the order they will look for them.
		sorted := slices.Clone(members)
		sort.Slice(sorted, func(i, j int) bool {
			return declIndex[sorted[i]] < declIndex[sorted[j]]
		})
		return nil, &CycleError{
			Members: sorted,
			Path:    cyclePath(graph, sorted),
		}
	}

	order := Sort(graph, declIndex)

	hash, err := schemaHash(decls)
	if err != nil {
		return nil, fmt.Errorf("schema hash: %w", err)
	}

	return &Schema{
		decls:     byName,
		order:     order,
		declIndex: declIndex,
		hash:      hash,
	}, nil
}

// Order returns the evaluation order: a permutation of all declared
// names, each exactly once, consistent with every dependency edge.
// The returned slice is a copy.
func (s *Schema) Order() []ir.Name {
	return slices.Clone(s.order)
}

// Decl returns the declaration for a property name.
func (s *Schema) Decl(name ir.Name) (ir.PropertyDecl, bool) {
	d, ok := s.decls[name]
	return d, ok
}

// Len returns the number of declared properties.
func (s *Schema) Len() int {
	return len(s.order)
}

// Hash returns the content-addressed hash of the schema's structure:
// property names, requirement sets, and clause counts. Clause functions
// cannot contribute (they are code), so the hash identifies the shape
// of the schema, which is what the evaluation log needs to detect a
// definition change between runs.
func (s *Schema) Hash() string {
	return s.hash
}

// schemaHash canonically serializes the declaration structure.
func schemaHash(decls []ir.PropertyDecl) (string, error) {
	obj := make(ir.Object, len(decls))
	for i, decl := range decls {
		requires := make([]string, len(decl.Requires))
		for j, r := range decl.Requires {
			requires[j] = string(r)
		}
		slices.Sort(requires)

		reqArr := make(ir.Array, len(requires))
		for j, r := range requires {
			reqArr[j] = ir.String(r)
		}
		obj[string(decl.Name)] = ir.Object{
			"index":    ir.Int(int64(i)),
			"requires": reqArr,
			"clauses":  ir.Int(int64(len(decl.Clauses))),
		}
	}

	canonical, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	return ir.HashWithDomain(ir.DomainSchema, canonical), nil
}
