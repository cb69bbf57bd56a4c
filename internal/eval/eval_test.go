package eval

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/schema"
	"github.com/roach88/lattice/internal/testutil"
)

// arithmeticSchema is the canonical worked example:
//
//	p = input + 1
//	q = input * 5   when p > 0
//	    input * 5   when p == 3
//	    p * input   otherwise
//	r = p * q
//	z = q * 5
func arithmeticSchema(t *testing.T) *schema.Schema {
	t.Helper()

	decls := []ir.PropertyDecl{
		testutil.InputDecl("p", func(i int64) int64 { return i + 1 }),
		testutil.Decl("q", []ir.Name{"p"},
			ir.Clause{
				Guard: testutil.IntGuard("p", func(n int64) bool { return n > 0 }),
				Body:  testutil.IntBody(func(i int64) int64 { return i * 5 }),
			},
			ir.Clause{
				Pattern: ir.BoundEq("p", ir.Int(3)),
				Body:    testutil.IntBody(func(i int64) int64 { return i * 5 }),
			},
			ir.Clause{
				Body: testutil.IntsBody([]ir.Name{"p"}, func(i int64, b []int64) int64 { return b[0] * i }),
			},
		),
		testutil.DerivedDecl("r", []ir.Name{"p", "q"},
			testutil.IntsBody([]ir.Name{"p", "q"}, func(_ int64, b []int64) int64 { return b[0] * b[1] })),
		testutil.DerivedDecl("z", []ir.Name{"q"},
			testutil.IntsBody([]ir.Name{"q"}, func(_ int64, b []int64) int64 { return b[0] * 5 })),
	}

	s, err := schema.Build(decls)
	require.NoError(t, err)
	return s
}

func TestEvaluate_ArithmeticExample(t *testing.T) {
	s := arithmeticSchema(t)

	rec, err := Evaluate(s, ir.Int(2))
	require.NoError(t, err)

	assert.Equal(t, ir.Record{
		"p": ir.Int(3),
		"q": ir.Int(10),
		"r": ir.Int(30),
		"z": ir.Int(50),
	}, rec)
}

func TestEvaluate_FallbackClause(t *testing.T) {
	s := arithmeticSchema(t)

	// input -5: p = -4, guard p > 0 fails, pattern p == 3 fails,
	// fallback fires with q = p * input = 20.
	rec, err := Evaluate(s, ir.Int(-5))
	require.NoError(t, err)

	assert.Equal(t, ir.Record{
		"p": ir.Int(-4),
		"q": ir.Int(20),
		"r": ir.Int(-80),
		"z": ir.Int(100),
	}, rec)
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	// Both clauses match; only the first fires.
	decls := []ir.PropertyDecl{
		testutil.Decl("p", nil,
			ir.Clause{Body: func(ir.Value, ir.Record) (ir.Value, error) { return ir.String("first"), nil }},
			ir.Clause{Body: func(ir.Value, ir.Record) (ir.Value, error) { return ir.String("second"), nil }},
		),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	rec, err := Evaluate(s, ir.Int(0))
	require.NoError(t, err)
	assert.Equal(t, ir.String("first"), rec["p"])
}

func TestEvaluate_NoBacktrackingOnBodyError(t *testing.T) {
	// The first clause matches and its body fails; the second clause
	// would succeed but must never be consulted.
	decls := []ir.PropertyDecl{
		testutil.Decl("p", nil,
			ir.Clause{Body: func(ir.Value, ir.Record) (ir.Value, error) {
				return nil, errors.New("boom")
			}},
			ir.Clause{Body: func(ir.Value, ir.Record) (ir.Value, error) {
				return ir.Int(42), nil
			}},
		),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	_, err = Evaluate(s, ir.Int(0))
	require.Error(t, err)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeBodyFailed, ee.Code)
	assert.Equal(t, ir.Name("p"), ee.Property)
	assert.Equal(t, 0, ee.Clause)
	assert.EqualError(t, ee.Err, "boom")
}

func TestEvaluate_NoMatchingClause(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.InputDecl("p", func(i int64) int64 { return i }),
		testutil.Decl("q", []ir.Name{"p"},
			ir.Clause{
				Guard: testutil.IntGuard("p", func(n int64) bool { return n > 100 }),
				Body:  testutil.IntBody(func(i int64) int64 { return i }),
			},
		),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	_, err = Evaluate(s, ir.Int(1))
	require.Error(t, err)
	assert.True(t, IsDispatchError(err))

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ir.Name("q"), ee.Property)
	assert.Equal(t, -1, ee.Clause)
	// The snapshot shows the state at the point of failure: p was bound.
	assert.Equal(t, `{"p":1}`, ee.Partial)
}

func TestEvaluate_NilValueRejected(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.Decl("p", nil,
			ir.Clause{Body: func(ir.Value, ir.Record) (ir.Value, error) { return nil, nil }},
		),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	_, err = Evaluate(s, ir.Int(0))
	require.Error(t, err)

	var ee *EvalError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, ErrCodeNilValue, ee.Code)
}

func TestEvaluate_NullIsAValue(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.ConstDecl("p", ir.Null{}),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	rec, err := Evaluate(s, ir.Int(0))
	require.NoError(t, err)
	assert.Equal(t, ir.Null{}, rec["p"])
}

func TestEvaluate_PatternSeesPartialRecord(t *testing.T) {
	decls := []ir.PropertyDecl{
		testutil.ConstDecl("mode", ir.String("fast")),
		testutil.Decl("limit", []ir.Name{"mode"},
			ir.Clause{
				Pattern: ir.BoundEq("mode", ir.String("fast")),
				Body:    func(ir.Value, ir.Record) (ir.Value, error) { return ir.Int(10), nil },
			},
			ir.Clause{
				Body: func(ir.Value, ir.Record) (ir.Value, error) { return ir.Int(100), nil },
			},
		),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	rec, err := Evaluate(s, ir.Int(0))
	require.NoError(t, err)
	assert.Equal(t, ir.Int(10), rec["limit"])
}

func TestEvaluate_FreshRecordPerCall(t *testing.T) {
	s := arithmeticSchema(t)

	a, err := Evaluate(s, ir.Int(2))
	require.NoError(t, err)
	b, err := Evaluate(s, ir.Int(4))
	require.NoError(t, err)

	assert.Equal(t, ir.Int(3), a["p"])
	assert.Equal(t, ir.Int(5), b["p"])
}

func TestEvaluate_DeterministicAcrossRuns(t *testing.T) {
	s := arithmeticSchema(t)

	first, err := Evaluate(s, ir.Int(7))
	require.NoError(t, err)
	firstHash, err := ir.RecordHash(first)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		rec, err := Evaluate(s, ir.Int(7))
		require.NoError(t, err)
		h, err := ir.RecordHash(rec)
		require.NoError(t, err)
		assert.Equal(t, firstHash, h)
	}
}

func TestEvaluate_DiamondDependency(t *testing.T) {
	// a feeds both b and c; d reads all three.
	decls := []ir.PropertyDecl{
		testutil.InputDecl("a", func(i int64) int64 { return i }),
		testutil.DerivedDecl("b", []ir.Name{"a"},
			testutil.IntsBody([]ir.Name{"a"}, func(_ int64, v []int64) int64 { return v[0] + 1 })),
		testutil.DerivedDecl("c", []ir.Name{"a"},
			testutil.IntsBody([]ir.Name{"a"}, func(_ int64, v []int64) int64 { return v[0] + 2 })),
		testutil.DerivedDecl("d", []ir.Name{"b", "c"},
			testutil.IntsBody([]ir.Name{"b", "c"}, func(_ int64, v []int64) int64 { return v[0] * v[1] })),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)

	rec, err := Evaluate(s, ir.Int(10))
	require.NoError(t, err)
	assert.Equal(t, ir.Int(132), rec["d"])
}

func TestEvaluate_ConcurrentSameSchema(t *testing.T) {
	s := arithmeticSchema(t)

	results := make(chan error, 16)
	for g := 0; g < 16; g++ {
		go func(g int) {
			rec, err := Evaluate(s, ir.Int(int64(g)))
			if err != nil {
				results <- err
				return
			}
			want := ir.Int(int64(g) + 1)
			if !ir.Equal(rec["p"], want) {
				results <- fmt.Errorf("p = %v, want %v", rec["p"], want)
				return
			}
			results <- nil
		}(g)
	}
	for g := 0; g < 16; g++ {
		assert.NoError(t, <-results)
	}
}
