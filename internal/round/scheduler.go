package round

import "time"

// Task is a scheduled callback that can be stopped before it fires.
type Task interface {
	Stop() bool
}

// Scheduler runs callbacks after a delay. Callbacks may run on another
// goroutine; the controller serialises them with its own lock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// ClockScheduler schedules on the wall clock via time.AfterFunc.
type ClockScheduler struct{}

// AfterFunc implements Scheduler.
func (ClockScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
