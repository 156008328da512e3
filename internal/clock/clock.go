// Package clock abstracts the time operations the portfolio needs so that
// timer-driven code can be tested deterministically.
//
// Production code uses Real(). Tests use Fake(), whose time only moves
// when Advance is called; due callbacks run synchronously inside Advance.
package clock

import "time"

// Clock is the subset of the time package used by timer-driven components.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f once after d has elapsed.
	AfterFunc(d time.Duration, f func()) *Timer

	// TickFunc calls f every d until the returned Timer is stopped.
	// Panics if d <= 0.
	TickFunc(d time.Duration, f func()) *Timer
}

// Timer is a handle on a scheduled callback.
type Timer struct {
	stopFunc func() bool
}

// Stop cancels the callback. It reports whether this call stopped an
// active timer; stopping twice, or after a one-shot timer fired, returns
// false. Stop may be called from inside the timer's own callback.
func (t *Timer) Stop() bool {
	if t == nil || t.stopFunc == nil {
		return false
	}
	return t.stopFunc()
}
