package sessionclock

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler supplies wall-clock time and deferred callbacks. Tests inject
// fakeclock.Clock instead of waiting on real time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemScheduler struct{}

// System returns the Scheduler backed by the time package.
func System() Scheduler {
	return systemScheduler{}
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
