package lifecycle

import (
	"sync"
	"time"
)

// Scheduler runs a deferred flush. Everything scheduled before the flush runs
// belongs to the same turn.
type Scheduler interface {
	Schedule(fn func())
}

// DelayScheduler flushes after a fixed debounce window.
type DelayScheduler struct {
	Delay time.Duration
}

func (s DelayScheduler) Schedule(fn func()) {
	if s.Delay <= 0 {
		go fn()
		return
	}
	time.AfterFunc(s.Delay, fn)
}

// ManualScheduler queues work until RunPending is called.
type ManualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) Schedule(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// RunPending runs the work queued so far and returns how many functions ran.
// Work scheduled by those functions waits for the next call.
func (s *ManualScheduler) RunPending() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
