// Package eventloop serialises every state mutation onto one goroutine.
//
// User actions and timer ticks are both submitted as tasks, so the study
// components never observe interleaved calls and need no locking of their own.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/starford/scistudy/internal/clock"
)

// ErrStopped is returned when a task is submitted after the loop has exited.
var ErrStopped = errors.New("eventloop: stopped")

// Loop is a single-goroutine task runner. It implements clock.Scheduler.
type Loop struct {
	tasks   chan func()
	stopped chan struct{}
	started atomic.Bool
	once    sync.Once
}

var _ clock.Scheduler = (*Loop)(nil)

// New creates a loop. Call Run to start processing.
func New() *Loop {
	return &Loop{
		tasks:   make(chan func(), 64),
		stopped: make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled. It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("eventloop: already running")
	}
	defer l.once.Do(func() { close(l.stopped) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-l.tasks:
			task()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}
	select {
	case l.tasks <- wrapped:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues fn without waiting. It returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case l.tasks <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Schedule posts fn to the loop every interval. The returned CancelFunc must
// be called from the loop goroutine; once it returns, fn never runs again,
// including a tick that was already queued.
func (l *Loop) Schedule(interval time.Duration, fn func()) clock.CancelFunc {
	var cancelled atomic.Bool
	quit := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-l.stopped:
				return
			case <-ticker.C:
				ok := l.Post(func() {
					if !cancelled.Load() {
						fn()
					}
				})
				if !ok {
					return
				}
			}
		}
	}()

	var stop sync.Once
	return func() {
		stop.Do(func() {
			cancelled.Store(true)
			close(quit)
		})
	}
}
