package schema

import (
	"slices"

	"github.com/roach88/lattice/internal/ir"
)

// FindCycle inspects the graph once at schema-build time and returns
// the set of all vertices that participate in some cycle, or nil when
// the graph is acyclic.
//
// The algorithm is Tarjan's strongly connected components: every SCC
// with more than one member is a cycle, and a singleton SCC is a cycle
// only when it carries a self-loop. Returning the full vertex set (not
// just "a cycle exists") lets the caller report exactly which
// properties are mutually dependent.
//
// The returned set is sorted lexically; Build re-sorts it by
// declaration index before building the error.
func FindCycle(g *Graph) []ir.Name {
	var members []ir.Name
	for _, scc := range tarjanSCC(g) {
		if len(scc) > 1 || (len(scc) == 1 && g.HasEdge(scc[0], scc[0])) {
			members = append(members, scc...)
		}
	}
	slices.Sort(members)
	return members
}

// tarjanSCC finds strongly connected components.
//
// Returns a list of SCCs, each a list of property names. Vertices are
// visited in declaration order and successors in sorted order, so the
// result is deterministic for a given graph.
func tarjanSCC(g *Graph) [][]ir.Name {
	var (
		index   = 0
		stack   []ir.Name
		indices = make(map[ir.Name]int)
		lowlink = make(map[ir.Name]int)
		onStack = make(map[ir.Name]bool)
		sccs    [][]ir.Name
	)

	var strongConnect func(ir.Name)
	strongConnect = func(v ir.Name) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Successors(v) {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is the root of an SCC: pop the stack down to v.
		if lowlink[v] == indices[v] {
			var scc []ir.Name
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range g.Vertices() {
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}

	return sccs
}

// cyclePath reconstructs one concrete cycle through the given members
// for error messages. For a self-loop the path is [n, n]; otherwise it
// follows edges inside the member set until it returns to the start.
func cyclePath(g *Graph, members []ir.Name) []ir.Name {
	if len(members) == 0 {
		return nil
	}

	memberSet := make(map[ir.Name]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	start := members[0]
	if g.HasEdge(start, start) {
		return []ir.Name{start, start}
	}

	path := []ir.Name{start}
	visited := map[ir.Name]bool{start: true}
	current := start

	for {
		var next ir.Name
		found := false
		for _, cand := range g.Successors(current) {
			if memberSet[cand] && (!visited[cand] || cand == start) {
				next = cand
				found = true
				break
			}
		}
		if !found {
			return path
		}

		path = append(path, next)
		if next == start {
			return path
		}
		visited[next] = true
		current = next
	}
}
