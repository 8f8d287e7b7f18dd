package sim

import "time"

// Clock measures wall-clock time between frames.
type Clock struct {
	now   func() time.Time
	last  time.Time
	first float64
}

// NewClock returns a clock whose first tick reports one nominal frame at tps.
func NewClock(tps int) *Clock {
	return &Clock{now: time.Now, first: 1 / float64(tps)}
}

// Tick returns the seconds elapsed since the previous Tick.
func (c *Clock) Tick() float64 {
	t := c.now()
	if c.last.IsZero() {
		c.last = t
		return c.first
	}
	dt := t.Sub(c.last).Seconds()
	c.last = t
	return dt
}
