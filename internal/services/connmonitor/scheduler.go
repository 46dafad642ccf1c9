package connmonitor

import "time"

// Scheduler arms one-shot timers. It exists as a seam so tests can drive
// retries with a fake clock instead of real timers.
type Scheduler interface {
	// ScheduleAfter runs fn after d and returns a cancel func. Cancel is
	// safe to call after the timer fired.
	ScheduleAfter(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc.
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) ScheduleAfter(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
