package congestion

import "time"

// Clock is the interface used by the congestion controller to read the
// current time. Tests substitute a manually-advanced clock; production
// code uses RealClock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system wall clock.
type RealClock struct{}

// Now returns time.Now().
func (RealClock) Now() time.Time { return time.Now() }
