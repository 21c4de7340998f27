package harness

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future is the eventual result of a function started with Go. Its value
// and error are written once, before Done is closed.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn on a new goroutine and returns its Future. fn receives ctx
// unchanged, so a Future outlives any join that merely stops waiting on it.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Done returns a channel closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Resolved reports whether the future has resolved.
func (f *Future[T]) Resolved() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the future resolves and returns its outcome, or returns
// ctx.Err() if ctx ends first. Await may be called any number of times.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// JoinAll waits for every future and returns their values in order. It
// fails fast: the first error returned by any future ends the join, while
// the remaining futures keep running and stay awaitable.
//
// Returns:
//   - []T: The values, index-aligned with futures; nil on error.
//   - error: The first failure, or ctx.Err() if ctx ended first.
func JoinAll[T any](ctx context.Context, futures ...*Future[T]) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	values := make([]T, len(futures))
	for i, f := range futures {
		g.Go(func() error {
			v, err := f.Await(gctx)
			if err != nil {
				return err
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// A sibling's failure cancels gctx; report that failure, not the
		// cancellation it caused.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return values, nil
}

// JoinSettled waits for every future regardless of failures.
//
// Returns:
//   - []T: The values, index-aligned with futures (zero for failures).
//   - []error: The per-future errors, index-aligned with futures.
//   - error: ctx.Err() if ctx ended before every future resolved.
func JoinSettled[T any](ctx context.Context, futures ...*Future[T]) ([]T, []error, error) {
	var g errgroup.Group
	values := make([]T, len(futures))
	errs := make([]error, len(futures))
	for i, f := range futures {
		g.Go(func() error {
			select {
			case <-f.done:
				values[i], errs[i] = f.value, f.err
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return values, errs, nil
}
