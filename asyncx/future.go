package asyncx

import (
	"context"
	"fmt"
)

// Future is the pending-result handle for work started with Go or Do.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on its own goroutine. A panic escaping fn is captured as an
// error on the returned handle.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if rec := recover(); rec != nil {
				f.err = fmt.Errorf("async task panicked: %v", rec)
			}
		}()
		f.val, f.err = fn(ctx)
	}()
	return f
}

// Do is Go for work without a result value.
func Do(ctx context.Context, fn func(ctx context.Context) error) *Future[struct{}] {
	return Go(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}

// Done is closed when the work finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the work finishes or the context is cancelled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Err blocks until the work finishes and returns its error.
func (f *Future[T]) Err() error {
	<-f.done
	return f.err
}
