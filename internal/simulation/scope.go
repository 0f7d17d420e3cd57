package simulation

import (
	"context"
	"sync"
	"time"

	"logistics-dashboard/internal/logger"
)

// Observer is told about every tick a scoped task executes.
type Observer func(task string, at time.Time)

// Scope owns the tasks of one mounted panel. Closing the scope stops them
// all.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger
	notify Observer

	mu    sync.Mutex
	tasks []*Task
}

// NewScope creates a scope bound to parent. observe may be nil.
func NewScope(parent context.Context, log logger.Logger, observe Observer) *Scope {
	if log == nil {
		log = logger.NopLogger{}
	}
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel, log: log, notify: observe}
}

// Go starts a task that ticks until the scope closes.
func (s *Scope) Go(name string, interval time.Duration, fn func(time.Time)) *Task {
	return s.Until(name, interval, func(now time.Time) bool {
		fn(now)
		return true
	})
}

// Until starts a task that ticks until fn returns false or the scope closes.
func (s *Scope) Until(name string, interval time.Duration, fn func(time.Time) bool) *Task {
	t := Until(s.ctx, name, interval, func(now time.Time) bool {
		more := fn(now)
		if s.notify != nil {
			s.notify(name, now)
		}
		return more
	}, s.log)

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	return t
}

// Close stops every task and waits for them to exit.
func (s *Scope) Close() {
	s.cancel()
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = nil
	s.mu.Unlock()
	for _, t := range tasks {
		t.Stop()
	}
}

// Len returns the number of tasks started in the scope that are still
// running.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if t.Running() {
			n++
		}
	}
	return n
}
