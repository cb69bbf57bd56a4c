package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/testutil"
)

func body() ir.BodyFunc {
	return testutil.IntBody(func(i int64) int64 { return i })
}

func TestFindCycle_Acyclic(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.InputDecl("p", func(i int64) int64 { return i + 1 }),
		testutil.DerivedDecl("q", []ir.Name{"p"}, body()),
		testutil.DerivedDecl("r", []ir.Name{"p", "q"}, body()),
	}

	assert.Empty(t, FindCycle(BuildGraph(decls)))
}

func TestFindCycle_SelfLoop(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("p", []ir.Name{"p"}, body()),
	}

	assert.Equal(t, []ir.Name{"p"}, FindCycle(BuildGraph(decls)))
}

func TestFindCycle_TwoNode(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("a", []ir.Name{"b"}, body()),
		testutil.DerivedDecl("b", []ir.Name{"a"}, body()),
	}

	assert.Equal(t, []ir.Name{"a", "b"}, FindCycle(BuildGraph(decls)))
}

func TestFindCycle_ThreeNode(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("a", []ir.Name{"c"}, body()),
		testutil.DerivedDecl("b", []ir.Name{"a"}, body()),
		testutil.DerivedDecl("c", []ir.Name{"b"}, body()),
	}

	assert.Equal(t, []ir.Name{"a", "b", "c"}, FindCycle(BuildGraph(decls)))
}

func TestFindCycle_ExcludesAcyclicNeighbors(t *testing.T) {
	// a <-> b is a cycle; p and q hang off it but do not participate.
	decls := []ir.PropertyDecl{
		testutil.ConstDecl("p", ir.Int(1)),
		testutil.DerivedDecl("a", []ir.Name{"b", "p"}, body()),
		testutil.DerivedDecl("b", []ir.Name{"a"}, body()),
		testutil.DerivedDecl("q", []ir.Name{"a"}, body()),
	}

	assert.Equal(t, []ir.Name{"a", "b"}, FindCycle(BuildGraph(decls)))
}

func TestFindCycle_MultipleIndependentCycles(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("a", []ir.Name{"b"}, body()),
		testutil.DerivedDecl("b", []ir.Name{"a"}, body()),
		testutil.DerivedDecl("x", []ir.Name{"y"}, body()),
		testutil.DerivedDecl("y", []ir.Name{"x"}, body()),
	}

	assert.Equal(t, []ir.Name{"a", "b", "x", "y"}, FindCycle(BuildGraph(decls)))
}

func TestCyclePath_SelfLoop(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("p", []ir.Name{"p"}, body()),
	}
	g := BuildGraph(decls)

	assert.Equal(t, []ir.Name{"p", "p"}, cyclePath(g, FindCycle(g)))
}

func TestCyclePath_ReturnsToStart(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.DerivedDecl("a", []ir.Name{"c"}, body()),
		testutil.DerivedDecl("b", []ir.Name{"a"}, body()),
		testutil.DerivedDecl("c", []ir.Name{"b"}, body()),
	}
	g := BuildGraph(decls)
	members := FindCycle(g)

	path := cyclePath(g, members)
	require.GreaterOrEqual(t, len(path), 2)
	assert.Equal(t, path[0], path[len(path)-1])
	for _, step := range path {
		assert.Contains(t, members, step)
	}
}
