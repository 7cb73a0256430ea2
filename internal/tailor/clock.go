package tailor

import (
	"sync"
	"time"
)

// Clock yields creation timestamps in milliseconds since the epoch
type Clock interface {
	NowMillis() int64
}

// MonotonicClock never returns the same or an earlier value twice
type MonotonicClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewMonotonicClock creates a clock backed by the wall clock
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{now: time.Now}
}

// NowMillis returns the current time, bumped past the previous value when needed
func (c *MonotonicClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}
