// Package gameloop runs the server's main-thread work queue.
// Everything that mutates shared game state (timer callbacks, commands) is
// enqueued here and executed in FIFO order on a single goroutine.
package gameloop

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultQueueSize is the buffer size used by New when size <= 0.
const DefaultQueueSize = 256

// Loop is a FIFO queue of work items drained by one goroutine.
type Loop struct {
	queue    chan func()
	stopCh   chan struct{}
	stopOnce sync.Once
	executed atomic.Int64
}

// New creates a loop with the given queue size.
func New(size int) *Loop {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Loop{
		queue:  make(chan func(), size),
		stopCh: make(chan struct{}),
	}
}

// Enqueue submits fn for execution on the loop goroutine.
// Blocks while the queue is full. Returns false if the loop has stopped and fn
// will never run.
func (l *Loop) Enqueue(fn func()) bool {
	select {
	case <-l.stopCh:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.stopCh:
		return false
	}
}

// Call runs fn on the loop goroutine and waits for it to return.
// Returns false if the loop stopped before fn started; fn then never runs.
// Must not be called from the loop goroutine.
func (l *Loop) Call(fn func()) bool {
	var claimed atomic.Bool
	done := make(chan struct{})
	task := func() {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		defer close(done)
		fn()
	}
	if !l.Enqueue(task) {
		return false
	}

	select {
	case <-done:
		return true
	case <-l.stopCh:
		if claimed.CompareAndSwap(false, true) {
			return false
		}
		<-done
		return true
	}
}

// Start drains the queue until ctx is canceled or Stop is called (blocks).
func (l *Loop) Start(ctx context.Context) error {
	slog.Info("game loop started", "queue", cap(l.queue))

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			slog.Info("game loop stopping")
			return ctx.Err()

		case <-l.stopCh:
			slog.Info("game loop stopped")
			return nil

		case fn := <-l.queue:
			if l.stopped() {
				slog.Info("game loop stopped")
				return nil
			}
			l.run(fn)
		}
	}
}

// Stop stops the loop. Work still queued is dropped. Safe to call repeatedly.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Loop) stopped() bool {
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

// Executed returns the number of work items run so far.
func (l *Loop) Executed() int64 {
	return l.executed.Load()
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("game loop task panicked", "panic", r)
		}
	}()
	fn()
	l.executed.Add(1)
}
