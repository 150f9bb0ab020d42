package game

import (
	"sync"
	"time"
)

type tickTask struct {
	due time.Time
	run func()
}

// TickScheduler runs deferred functions on the game loop. Tasks are collected
// from any goroutine and executed by RunDue on the tick that their delay
// elapses, so deferred work always sees consistent game state.
type TickScheduler struct {
	lock  sync.Mutex
	tasks []tickTask
}

func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// AfterFunc schedules f to run on the first tick at least d from now.
func (s *TickScheduler) AfterFunc(d time.Duration, f func()) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tasks = append(s.tasks, tickTask{
		due: time.Now().Add(d),
		run: f,
	})
}

// RunDue executes every task whose delay has elapsed as of now.
// Tasks scheduled while running wait for a later tick.
func (s *TickScheduler) RunDue(now time.Time) {
	s.lock.Lock()
	var due []func()
	remaining := s.tasks[:0]
	for _, task := range s.tasks {
		if task.due.After(now) {
			remaining = append(remaining, task)
		} else {
			due = append(due, task.run)
		}
	}
	s.tasks = remaining
	s.lock.Unlock()

	for _, run := range due {
		run()
	}
}
