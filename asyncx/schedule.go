package asyncx

import "time"

// Timer is a handle to work scheduled with Schedule.
type Timer struct {
	t *time.Timer
}

// Schedule runs fn on its own goroutine after the delay.
func Schedule(delay time.Duration, fn func()) *Timer {
	return &Timer{t: time.AfterFunc(delay, fn)}
}

// Stop cancels the pending run. It reports whether the timer was stopped
// before firing; it does not wait for an already started fn.
func (t *Timer) Stop() bool {
	return t.t.Stop()
}
