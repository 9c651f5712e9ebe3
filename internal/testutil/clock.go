package testutil

import "time"

// Clock provides deterministic, monotonically increasing timestamps for
// tests of time-keyed modules (diary, timetrack).
type Clock struct {
	current time.Time
	step    time.Duration
}

// NewClock returns a clock starting at 2024-01-01T00:00:00Z that advances
// by step on every call to Now.
func NewClock(step time.Duration) *Clock {
	return &Clock{
		current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		step:    step,
	}
}

// Now advances the clock and returns the new time.
func (c *Clock) Now() time.Time {
	c.current = c.current.Add(c.step)

	return c.current
}
