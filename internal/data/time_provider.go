package data

import "time"

// TimeProvider supplies the current time so repositories can stamp rows with
// a clock that tests control.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider returns the system clock.
type RealTimeProvider struct{}

// Now returns the current time.
func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always returns the same instant.
type FixedTimeProvider struct {
	Time time.Time
}

// Now returns the fixed instant.
func (p FixedTimeProvider) Now() time.Time { return p.Time }
