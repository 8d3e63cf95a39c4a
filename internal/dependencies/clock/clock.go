package clock

import "time"

// Clock provides wall-clock time that can be mocked for testing.
// The verification state machine checks its timeouts lazily against
// this clock on every driving call; there are no background timers.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}
