// Package binder retries a binding action until its precondition holds.
// It replaces ad hoc startup ordering between components that become ready
// at different times, such as a player equipping a weapon before the
// connection handshake has finished.
package binder

import "time"

// Scheduler schedules a function to run once after a delay. The game loop
// provides a tick-aligned implementation; TimerScheduler is a wall-clock one.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// DefaultRetryInterval is the poll rate used when a caller passes no interval.
const DefaultRetryInterval = 100 * time.Millisecond

// TryBind runs action immediately if ready returns true, otherwise schedules
// another attempt after interval. The action runs at most once. Retries
// continue until ready holds; callers that need a cutoff should make ready
// report true and have action handle the expired case.
func TryBind(s Scheduler, interval time.Duration, ready func() bool, action func()) {
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	if ready() {
		action()
		return
	}
	s.AfterFunc(interval, func() {
		TryBind(s, interval, ready, action)
	})
}

// TimerScheduler schedules on wall-clock timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
