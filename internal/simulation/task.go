// Package simulation runs the periodic tasks that keep dashboard panels
// looking live. Every task is an explicit handle: once Stop returns the
// callback never fires again, so panels can discard their state safely.
package simulation

import (
	"context"
	"sync"
	"time"

	"logistics-dashboard/internal/logger"
)

// Task is a running periodic callback.
type Task struct {
	name  string
	fn    func(time.Time) bool
	log   logger.Logger
	reset chan time.Duration
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// Start calls fn on every tick of interval until Stop is called or ctx is
// cancelled.
func Start(ctx context.Context, name string, interval time.Duration, fn func(time.Time), log logger.Logger) *Task {
	return Until(ctx, name, interval, func(now time.Time) bool {
		fn(now)
		return true
	}, log)
}

// Until is like Start but the task also ends once fn returns false.
func Until(ctx context.Context, name string, interval time.Duration, fn func(time.Time) bool, log logger.Logger) *Task {
	if log == nil {
		log = logger.NopLogger{}
	}
	t := &Task{
		name:  name,
		fn:    fn,
		log:   log,
		reset: make(chan time.Duration, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go t.run(ctx, interval)
	return t
}

// Name returns the task name.
func (t *Task) Name() string { return t.name }

func (t *Task) run(ctx context.Context, interval time.Duration) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case d := <-t.reset:
			ticker.Reset(d)
		case now := <-ticker.C:
			// Stop may have raced with the tick.
			select {
			case <-t.stop:
				return
			default:
			}
			if !t.call(now) {
				return
			}
		}
	}
}

func (t *Task) call(now time.Time) (more bool) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("task %s panicked: %v", t.name, r)
			more = true
		}
	}()
	return t.fn(now)
}

// Reset changes the tick interval. It never blocks, so it may be called
// while holding a lock the callback also takes.
func (t *Task) Reset(interval time.Duration) {
	for {
		select {
		case <-t.done:
			return
		case t.reset <- interval:
			return
		default:
			select {
			case <-t.reset:
			default:
			}
		}
	}
}

// Stop ends the task and waits for its goroutine to exit. It is safe to call
// more than once. Stop must not be called from the task's own callback, and
// the caller must not hold a lock the callback needs.
func (t *Task) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}

// Running reports whether the task is still ticking.
func (t *Task) Running() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Done is closed once the task has exited.
func (t *Task) Done() <-chan struct{} { return t.done }
