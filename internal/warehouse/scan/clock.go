package scan

import "time"

// Clock abstracts timer creation so the success auto-reset delay is testable
// without waiting wall-clock time.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable timer handle. Stop reports whether the call stopped
// the timer before it fired.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

type systemTimer struct {
	t *time.Timer
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return systemTimer{t: time.AfterFunc(d, f)}
}

func (st systemTimer) Stop() bool {
	return st.t.Stop()
}

// SystemClock returns a Clock backed by runtime timers.
func SystemClock() Clock {
	return systemClock{}
}
