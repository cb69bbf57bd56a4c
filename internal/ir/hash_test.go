package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRecordHash_Stability tests that equal records hash equal and
// different records hash different.
func TestRecordHash_Stability(t *testing.T) {
	a := Record{"p": Int(3), "q": Int(10)}
	b := Record{"q": Int(10), "p": Int(3)} // same bindings, different literal order

	ha, err := RecordHash(a)
	require.NoError(t, err)
	hb, err := RecordHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	c := Record{"p": Int(3), "q": Int(11)}
	hc, err := RecordHash(c)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hc)
}

// TestEvalID_Components tests that each component contributes to the ID.
func TestEvalID_Components(t *testing.T) {
	base := MustEvalID("run-1", "schema-a", Int(2), 1)

	assert.NotEqual(t, base, MustEvalID("run-2", "schema-a", Int(2), 1))
	assert.NotEqual(t, base, MustEvalID("run-1", "schema-b", Int(2), 1))
	assert.NotEqual(t, base, MustEvalID("run-1", "schema-a", Int(3), 1))
	assert.NotEqual(t, base, MustEvalID("run-1", "schema-a", Int(2), 2))

	// Identical inputs reproduce the identical ID.
	assert.Equal(t, base, MustEvalID("run-1", "schema-a", Int(2), 1))
}

// TestHashWithDomain_Separation tests that the domain prefix separates
// otherwise identical payloads.
func TestHashWithDomain_Separation(t *testing.T) {
	payload := []byte(`{"x":1}`)
	assert.NotEqual(t,
		HashWithDomain(DomainRecord, payload),
		HashWithDomain(DomainEval, payload),
	)
}

// TestHashWithDomain_BoundaryAmbiguity tests the null separator: moving
// bytes between domain and data must change the hash.
func TestHashWithDomain_BoundaryAmbiguity(t *testing.T) {
	assert.NotEqual(t,
		HashWithDomain("ab", []byte("c")),
		HashWithDomain("a", []byte("bc")),
	)
}

// TestRecordHash_NullBinding tests that a Null-valued property hashes
// like any other binding.
func TestRecordHash_NullBinding(t *testing.T) {
	a, err := RecordHash(Record{"p": Null{}})
	require.NoError(t, err)

	b, err := RecordHash(Record{"p": Int(0)})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
