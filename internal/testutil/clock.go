package testutil

import (
	"sync"

	"github.com/MeKo-Tech/ioprof/internal/profiler"
)

// ManualClock is a profiler.Clock that only moves when told to.
// It is safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now profiler.Timestamp
}

// NewManualClock returns a clock reading start.
func NewManualClock(start profiler.Timestamp) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current reading.
func (c *ManualClock) Now() profiler.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms milliseconds. A negative ms moves it
// backwards.
func (c *ManualClock) Advance(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += profiler.Timestamp(ms)
}

// Set moves the clock to t.
func (c *ManualClock) Set(t profiler.Timestamp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
