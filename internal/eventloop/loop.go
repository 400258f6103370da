// Package eventloop serializes work onto a single goroutine.
//
// The live document and everything that touches it (operation handlers,
// trigger affordances, completion callbacks) are not safe for concurrent
// use. A Loop owns that state: work submitted from any goroutine runs on the
// goroutine that called Run, one task at a time, in submission order.
package eventloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrClosed is returned when submitting to a closed loop.
	ErrClosed = errors.New("eventloop: closed")

	// ErrQueueFull is returned by Post when the queue has no room.
	ErrQueueFull = errors.New("eventloop: queue full")
)

// DefaultQueueSize is used when New is given a non-positive size.
const DefaultQueueSize = 256

// task is one unit of work.
type task struct {
	fn     func() error
	result chan error // nil for posted tasks
}

// Loop runs submitted functions one at a time on the goroutine that calls
// Run.
//
// Usage:
//
//	loop := eventloop.New(0, logger)
//	go loop.Run(ctx)
//	defer loop.Close()
//
//	// From any goroutine:
//	err := loop.Do(ctx, func() error {
//	    return applier.ApplyAll(ctx, batch)
//	})
type Loop struct {
	queue  chan *task
	done   chan struct{}
	closed atomic.Bool
	logger *slog.Logger

	running   atomic.Bool
	closeOnce sync.Once
}

// New creates a loop with the given queue size. A nil logger discards.
func New(queueSize int, logger *slog.Logger) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		queue:  make(chan *task, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run processes tasks until ctx is cancelled or Close is called. Tasks still
// queued at that point fail with the cancellation cause or ErrClosed.
func (l *Loop) Run(ctx context.Context) {
	l.running.Store(true)
	defer l.running.Store(false)

	for {
		// Shutdown wins over queued work.
		select {
		case <-ctx.Done():
			l.drain(ctx.Err())
			return
		case <-l.done:
			l.drain(ErrClosed)
			return
		default:
		}

		select {
		case <-ctx.Done():
			l.drain(ctx.Err())
			return
		case <-l.done:
			l.drain(ErrClosed)
			return
		case t := <-l.queue:
			l.run(t)
		}
	}
}

// run executes a single task with panic recovery.
func (l *Loop) run(t *task) {
	err := l.call(t.fn)
	if t.result != nil {
		t.result <- err
		close(t.result)
		return
	}
	if err != nil {
		l.logger.Error("posted task failed", "error", err)
	}
}

func (l *Loop) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			l.logger.Error("task panic", "panic", r, "stack", string(stack[:n]))
			err = fmt.Errorf("eventloop: task panic: %v", r)
		}
	}()
	return fn()
}

// drain fails every queued task with err.
func (l *Loop) drain(err error) {
	for {
		select {
		case t := <-l.queue:
			if t.result != nil {
				t.result <- err
				close(t.result)
			}
		default:
			return
		}
	}
}

// Do runs fn on the loop and waits for its result. It must not be called
// from a task already running on the loop.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	if l.closed.Load() {
		return ErrClosed
	}

	t := &task{fn: fn, result: make(chan error, 1)}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	case l.queue <- t:
	}

	select {
	case <-ctx.Done():
		// The task is queued and still runs; only the wait is abandoned.
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	case err := <-t.result:
		return err
	}
}

// Post queues fn without waiting. Errors returned by fn are logged.
func (l *Loop) Post(fn func()) error {
	return l.PostErr(func() error {
		fn()
		return nil
	})
}

// PostErr is Post for functions that return an error.
func (l *Loop) PostErr(fn func() error) error {
	if l.closed.Load() {
		return ErrClosed
	}

	select {
	case <-l.done:
		return ErrClosed
	case l.queue <- &task{fn: fn}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the loop. Queued tasks fail with ErrClosed.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// IsClosed returns true if the loop has been closed.
func (l *Loop) IsClosed() bool {
	return l.closed.Load()
}

// IsRunning returns true while Run is processing tasks.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}
