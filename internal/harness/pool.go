package harness

import (
	"context"

	apperrors "github.com/agbru/concurbench/internal/errors"
)

type workerPool struct {
	size int
}

// NewWorkerPool returns a WorkerPool strategy with size workers.
//
// The pool performs no deadlock detection: operations that wait on each
// other need a pool at least as large as the batch.
//
// Returns:
//   - Strategy: The pool strategy.
//   - error: apperrors.ErrPoolCapacityExhausted if size is less than 1.
func NewWorkerPool(size int) (Strategy, error) {
	if size < 1 {
		return nil, apperrors.ErrPoolCapacityExhausted
	}
	return workerPool{size: size}, nil
}

func (workerPool) Kind() Kind { return WorkerPool }

// Size returns the number of workers.
func (p workerPool) Size() int { return p.size }

// Execute queues every operation index on a FIFO queue drained by the pool's
// workers, then waits for all completion signals. A failing item never stops
// the workers; every failure is reported at the join.
func (p workerPool) Execute(ctx context.Context, b *Batch) error {
	queue := make(chan int, b.Len())
	for i := range b.Len() {
		queue <- i
	}
	close(queue)

	// Workers beyond the number of items would never receive work.
	for w := range min(p.size, b.Len()) {
		worker := w + 1
		go func() {
			for i := range queue {
				_ = b.Execute(ctx, i, worker)
			}
		}()
	}
	return b.settle(ctx, b.Wait(ctx))
}
