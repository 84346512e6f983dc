// Package view holds the server-side state machines behind the landing
// page sections. Each instance belongs to a single page render; none is
// shared between requests.
package view

import (
	"context"
)

// Task runs a function on its own goroutine with a cancellable context.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	result T
	err    error
}

// Start runs fn with a context derived from parent.
func Start[T any](parent context.Context, fn func(ctx context.Context) T) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		t.result = fn(ctx)
		t.err = ctx.Err()
		cancel()
	}()

	return t
}

// Cancel cancels the task context. fn still runs to completion but its
// result is reported as canceled.
func (t *Task[T]) Cancel() {
	t.cancel()
}

// Done is closed once fn has returned.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome of a finished task. err is non-nil when the
// task was canceled before fn returned.
func (t *Task[T]) Result() (T, error) {
	<-t.done
	return t.result, t.err
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
