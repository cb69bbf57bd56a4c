package schema

import "github.com/roach88/lattice/internal/ir"

// Sort produces a topological order over the graph's vertices, breaking
// ties by declaration index. Call only after FindCycle returned empty -
// Sort assumes the graph is acyclic.
//
// Kahn's algorithm: repeatedly emit a vertex with no unprocessed
// predecessor; among eligible vertices, always pick the one declared
// first. The tie-break makes the order a pure function of the
// declaration sequence, which keeps evaluation reproducible across runs
// and test expectations stable.
//
// Candidate selection is a linear scan rather than a heap - property
// sets are small and the scan keeps the tie-break obvious.
func Sort(g *Graph, declIndex map[ir.Name]int) []ir.Name {
	vertices := g.Vertices()

	indegree := make(map[ir.Name]int, len(vertices))
	for _, v := range vertices {
		indegree[v] = 0
	}
	for _, from := range vertices {
		for _, to := range g.Successors(from) {
			indegree[to]++
		}
	}

	var ready []ir.Name
	for _, v := range vertices {
		if indegree[v] == 0 {
			ready = append(ready, v)
		}
	}

	order := make([]ir.Name, 0, len(vertices))
	for len(ready) > 0 {
		// Pick the ready vertex with the smallest declaration index.
		best := 0
		for i := 1; i < len(ready); i++ {
			if declIndex[ready[i]] < declIndex[ready[best]] {
				best = i
			}
		}
		v := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, v)

		for _, to := range g.Successors(v) {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	return order
}
