package blackmarket

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or was stopped.
	Stop() bool
}

// Clock is the time source for the scheduler.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the wall clock backed by time.AfterFunc.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc runs f on its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
