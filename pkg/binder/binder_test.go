package binder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler collects scheduled functions so tests can run them manually.
type fakeScheduler struct {
	pending   []func()
	intervals []time.Duration
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) {
	f.pending = append(f.pending, fn)
	f.intervals = append(f.intervals, d)
}

func (f *fakeScheduler) runNext(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.pending)
	next := f.pending[0]
	f.pending = f.pending[1:]
	next()
}

func TestTryBind_ImmediatelyReady(t *testing.T) {
	scheduler := &fakeScheduler{}
	ran := 0

	TryBind(scheduler, DefaultRetryInterval, func() bool { return true }, func() { ran++ })

	assert.Equal(t, 1, ran)
	assert.Empty(t, scheduler.pending)
}

func TestTryBind_RetriesUntilReady(t *testing.T) {
	scheduler := &fakeScheduler{}
	attempts := 0
	ran := 0

	ready := func() bool {
		attempts++
		return attempts > 3
	}
	TryBind(scheduler, DefaultRetryInterval, ready, func() { ran++ })

	// not ready yet: one retry scheduled, action not run
	assert.Zero(t, ran)
	require.Len(t, scheduler.pending, 1)
	assert.Equal(t, DefaultRetryInterval, scheduler.intervals[0])

	scheduler.runNext(t)
	assert.Zero(t, ran)
	scheduler.runNext(t)
	assert.Zero(t, ran)

	// fourth attempt succeeds and runs the action exactly once
	scheduler.runNext(t)
	assert.Equal(t, 1, ran)
	assert.Empty(t, scheduler.pending)
}

func TestTryBind_DefaultsInterval(t *testing.T) {
	scheduler := &fakeScheduler{}

	TryBind(scheduler, 0, func() bool { return false }, func() {})

	require.Len(t, scheduler.intervals, 1)
	assert.Equal(t, DefaultRetryInterval, scheduler.intervals[0])
}
