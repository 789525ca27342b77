// Package clock abstracts wall-clock reads so date-dependent logic can be tested.
package clock

import "time"

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant.
type Fixed time.Time

// Now returns the fixed instant.
func (fixed Fixed) Now() time.Time {
	return time.Time(fixed)
}

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls the function.
func (fn Func) Now() time.Time {
	return fn()
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
	_ Clock = Func(nil)
)
