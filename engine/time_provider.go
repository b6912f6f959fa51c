package engine

import (
	"sync"
	"time"
)

// TickReader reports host time as whole milliseconds
// Readings must be monotonically non-decreasing
type TickReader interface {
	Ticks() uint64
}

// MonotonicTicks reads the monotonic clock relative to its creation
// Used for real-time operations (UI, input) that should not be scaled
type MonotonicTicks struct {
	epoch time.Time
}

// NewMonotonicTicks creates a new monotonic tick reader starting at zero
func NewMonotonicTicks() *MonotonicTicks {
	return &MonotonicTicks{epoch: time.Now()}
}

// Ticks returns milliseconds elapsed since the reader was created
func (p *MonotonicTicks) Ticks() uint64 {
	return uint64(time.Since(p.epoch).Milliseconds())
}

var (
	defaultClockOnce sync.Once
	defaultClock     *MonotonicTicks
)

// DefaultClock returns the process-wide host clock, created on first use
func DefaultClock() TickReader {
	defaultClockOnce.Do(func() {
		defaultClock = NewMonotonicTicks()
	})
	return defaultClock
}
