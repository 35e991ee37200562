// Package testutil provides shared helpers for deterministic tests.
package testutil

import (
	"sync"
	"time"
)

// FixedClock hands out deterministic, strictly increasing timestamps.
//
// Each call to Now returns the base time advanced by one more step. This
// keeps check record timestamps unique and ordered without touching the
// wall clock, so history ordering tests and golden reports stay stable.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int
}

// NewFixedClock creates a clock starting at base, advancing by step per call.
func NewFixedClock(base time.Time, step time.Duration) *FixedClock {
	return &FixedClock{base: base, step: step}
}

// Now returns the next timestamp in the sequence.
// The first call returns base exactly.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.base.Add(time.Duration(c.n) * c.step)
	c.n++
	return t
}

// Reset rewinds the clock so the next Now call returns base again.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
