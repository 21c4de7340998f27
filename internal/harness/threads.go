package harness

import (
	"context"
	"runtime"
)

type threadPerTask struct{}

func (threadPerTask) Kind() Kind { return ThreadPerTask }

// Execute starts one goroutine per operation, each locked to its own OS
// thread, and blocks until every completion signal has fired. Failures are
// reported only once all workers are joined.
func (threadPerTask) Execute(ctx context.Context, b *Batch) error {
	for i := range b.Len() {
		go func() {
			// Exiting while still locked terminates the thread, so no
			// other goroutine ever runs on it.
			runtime.LockOSThread()
			_ = b.Execute(ctx, i, threadID())
		}()
	}
	return b.settle(ctx, b.Wait(ctx))
}
