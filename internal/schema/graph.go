package schema

import (
	"slices"

	"github.com/roach88/lattice/internal/ir"
)

// Graph is the property dependency graph. An edge r -> p means r must
// be computed before p. Vertices are kept in first-declaration order;
// edges are sets, so declaring the same requirement twice is a no-op.
type Graph struct {
	vertices []ir.Name
	edges    map[ir.Name]map[ir.Name]bool // from -> to set
}

// BuildGraph constructs the dependency graph from declarations.
//
// For each declaration p and each r in p.Requires, it adds the edge
// r -> p. A property requiring itself produces a self-loop, which the
// cycle detector reports as a (trivial) cycle. BuildGraph performs no
// validation - undeclared requirements are caught earlier by
// validateDecls, and cycles later by FindCycle.
func BuildGraph(decls []ir.PropertyDecl) *Graph {
	g := &Graph{
		edges: make(map[ir.Name]map[ir.Name]bool, len(decls)),
	}

	for _, decl := range decls {
		if g.edges[decl.Name] == nil {
			g.vertices = append(g.vertices, decl.Name)
			g.edges[decl.Name] = make(map[ir.Name]bool)
		}
	}

	for _, decl := range decls {
		for _, req := range decl.Requires {
			if g.edges[req] == nil {
				// Requirement on a name with no declaration. Still a
				// vertex so traversals see a closed graph; validation
				// has already flagged it as an error.
				g.vertices = append(g.vertices, req)
				g.edges[req] = make(map[ir.Name]bool)
			}
			g.edges[req][decl.Name] = true
		}
	}

	return g
}

// Vertices returns all vertices in first-declaration order.
func (g *Graph) Vertices() []ir.Name {
	return slices.Clone(g.vertices)
}

// Successors returns the vertices that must come after n, sorted
// lexically for deterministic traversal.
func (g *Graph) Successors(n ir.Name) []ir.Name {
	out := make([]ir.Name, 0, len(g.edges[n]))
	for to := range g.edges[n] {
		out = append(out, to)
	}
	slices.Sort(out)
	return out
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to ir.Name) bool {
	return g.edges[from][to]
}

// EdgeCount returns the total number of distinct edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, tos := range g.edges {
		total += len(tos)
	}
	return total
}
