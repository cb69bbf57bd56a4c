package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lattice/internal/eval"
	"github.com/roach88/lattice/internal/ir"
	"github.com/roach88/lattice/internal/schema"
	"github.com/roach88/lattice/internal/testutil"
)

func verifySchema(t *testing.T, qFactor int64) *schema.Schema {
	t.Helper()
	decls := []ir.PropertyDecl{
		testutil.InputDecl("p", func(i int64) int64 { return i + 1 }),
		testutil.DerivedDecl("q", []ir.Name{"p"},
			testutil.IntsBody([]ir.Name{"p"}, func(i int64, b []int64) int64 { return b[0] * qFactor })),
	}
	s, err := schema.Build(decls)
	require.NoError(t, err)
	return s
}

func logEvaluations(t *testing.T, s *Store, sch *schema.Schema, inputs ...int64) {
	t.Helper()
	ctx := context.Background()
	clock := testutil.NewClock()
	for _, in := range inputs {
		_, trace, err := eval.EvaluateTraced(sch, ir.Int(in))
		require.NoError(t, err)
		ev, err := NewEvaluation("run-1", trace, clock.Next())
		require.NoError(t, err)
		_, err = s.WriteEvaluation(ctx, ev)
		require.NoError(t, err)
	}
}

func TestVerify_CleanLog(t *testing.T) {
	s := newTestStore(t)
	sch := verifySchema(t, 2)

	logEvaluations(t, s, sch, 1, 2, 3, 4)

	report, err := s.Verify(context.Background(), sch)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 4, report.Checked)
	assert.Zero(t, report.Skipped)
}

func TestVerify_DetectsSilentDefinitionChange(t *testing.T) {
	s := newTestStore(t)

	// Same structure (names, requires, clause counts) means the same
	// schema hash, but the body computes something else. Verify must
	// flag every entry.
	logged := verifySchema(t, 2)
	changed := verifySchema(t, 3)
	require.Equal(t, logged.Hash(), changed.Hash())

	logEvaluations(t, s, logged, 1, 2)

	report, err := s.Verify(context.Background(), changed)
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Checked)
	assert.Len(t, report.Mismatches, 2)
	assert.Contains(t, report.Mismatches[0].Reason, "record hash diverged")
}

func TestVerify_SkipsOtherSchemas(t *testing.T) {
	s := newTestStore(t)
	sch := verifySchema(t, 2)

	logEvaluations(t, s, sch, 1)

	// A structurally different schema: nothing in the log belongs to it.
	other, err := schema.Build([]ir.PropertyDecl{
		testutil.ConstDecl("only", ir.Int(1)),
	})
	require.NoError(t, err)

	report, err := s.Verify(context.Background(), other)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.Checked)
	assert.Equal(t, 1, report.Skipped)
}

func TestVerify_EmptyLog(t *testing.T) {
	s := newTestStore(t)
	sch := verifySchema(t, 2)

	report, err := s.Verify(context.Background(), sch)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, report.Checked)
}
