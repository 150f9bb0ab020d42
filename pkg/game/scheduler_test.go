package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickScheduler_RunDue(t *testing.T) {
	scheduler := NewTickScheduler()
	ran := 0

	scheduler.AfterFunc(-time.Millisecond, func() { ran++ })
	scheduler.AfterFunc(time.Hour, func() { ran += 100 })

	scheduler.RunDue(time.Now())
	assert.Equal(t, 1, ran)

	// the distant task is still pending
	scheduler.RunDue(time.Now())
	assert.Equal(t, 1, ran)

	scheduler.RunDue(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 101, ran)
}

func TestTickScheduler_TaskSchedulesTask(t *testing.T) {
	scheduler := NewTickScheduler()
	ran := 0

	scheduler.AfterFunc(-time.Millisecond, func() {
		scheduler.AfterFunc(-time.Millisecond, func() { ran++ })
	})

	scheduler.RunDue(time.Now())
	assert.Zero(t, ran)

	scheduler.RunDue(time.Now())
	assert.Equal(t, 1, ran)
}
