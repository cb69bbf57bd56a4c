package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRecord_Accessors tests Has/Get/Names behavior.
func TestRecord_Accessors(t *testing.T) {
	rec := Record{"p": Int(3), "a": Int(1)}

	assert.True(t, rec.Has("p"))
	assert.False(t, rec.Has("q"))

	v, ok := rec.Get("p")
	assert.True(t, ok)
	assert.Equal(t, Int(3), v)

	_, ok = rec.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []Name{"a", "p"}, rec.Names())
}

// TestRecord_Clone tests that clones are independent.
func TestRecord_Clone(t *testing.T) {
	rec := Record{"p": Int(3)}
	clone := rec.Clone()
	clone["q"] = Int(10)

	assert.False(t, rec.Has("q"))
	assert.True(t, clone.Has("p"))
}

// TestBound tests the bound-names pattern combinator.
func TestBound(t *testing.T) {
	partial := Record{"p": Int(3), "q": Int(10)}

	assert.True(t, Bound("p")(partial))
	assert.True(t, Bound("p", "q")(partial))
	assert.False(t, Bound("p", "r")(partial))
	assert.True(t, Bound()(partial), "no names matches anything")
}

// TestBoundEq tests the equality pattern combinator.
func TestBoundEq(t *testing.T) {
	partial := Record{"p": Int(3)}

	assert.True(t, BoundEq("p", Int(3))(partial))
	assert.False(t, BoundEq("p", Int(4))(partial))
	assert.False(t, BoundEq("q", Int(3))(partial), "unbound never matches")
}

// TestAllOf tests pattern conjunction with nil entries.
func TestAllOf(t *testing.T) {
	partial := Record{"p": Int(3), "q": Int(10)}

	assert.True(t, AllOf(Bound("p"), BoundEq("q", Int(10)))(partial))
	assert.False(t, AllOf(Bound("p"), BoundEq("q", Int(11)))(partial))
	assert.True(t, AllOf(nil, Bound("p"))(partial))
	assert.True(t, AllOf()(partial))
}
