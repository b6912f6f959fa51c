package engine

import "github.com/lixenwraith/fixtick/parameter"

// ScaledClock provides game ticks advancing at 1/divisor of host time
// Fractional progress is kept in a fixed-point accumulator so frequent reads never lose speed
// Not safe for concurrent use; the owning loop serializes access
type ScaledClock struct {
	host    TickReader
	divisor uint64

	// Fixed-point state, parameter.TickPrecisionBits fractional bits
	started  bool
	lastReal uint64 // Last observed host tick
	acc      uint64 // Scaled ticks in fixed point
	rem      uint64 // Division remainder not yet folded into acc
}

// NewScaledClock creates a scaled clock over host; divisor below 1 runs at real speed
func NewScaledClock(host TickReader, divisor int) *ScaledClock {
	c := &ScaledClock{host: host}
	c.setDivisor(divisor)
	return c
}

// Ticks returns the current scaled tick, initializing the accumulator on first use
func (c *ScaledClock) Ticks() uint64 {
	now := c.host.Ticks()

	if !c.started {
		c.started = true
		c.lastReal = now
		c.acc = now << parameter.TickPrecisionBits
		return now
	}

	// Host went backwards: resync without advancing
	if now < c.lastReal {
		c.lastReal = now
		return c.acc >> parameter.TickPrecisionBits
	}

	num := (now-c.lastReal)<<parameter.TickPrecisionBits + c.rem
	c.acc += num / c.divisor
	c.rem = num % c.divisor
	c.lastReal = now

	return c.acc >> parameter.TickPrecisionBits
}

// SetDivisor changes the slow-motion factor, accumulated progress is kept
func (c *ScaledClock) SetDivisor(divisor int) {
	// Fold elapsed host time at the old speed before switching
	if c.started {
		c.Ticks()
	}
	c.setDivisor(divisor)
	c.rem = 0
}

// Divisor returns the active slow-motion factor
func (c *ScaledClock) Divisor() int {
	return int(c.divisor)
}

func (c *ScaledClock) setDivisor(divisor int) {
	if divisor < 1 {
		divisor = 1
	}
	c.divisor = uint64(divisor)
}
