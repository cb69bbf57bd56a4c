// Package testutil provides shared helpers for lattice tests:
// declaration builders for quickly assembling property sets, and a
// resettable logical clock for store tests.
package testutil

import "sync/atomic"

// Clock is a thread-safe monotonic logical clock for tests.
//
// The store orders log rows by a logical seq, never wall time; a
// resettable clock lets the same scenario run repeatedly with identical
// seq values.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments and returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Reset rewinds the clock to 0 for test reuse.
func (c *Clock) Reset() {
	c.seq.Store(0)
}
