package harness

import (
	"context"
	"errors"

	apperrors "github.com/agbru/concurbench/internal/errors"
)

type structuredJoin struct {
	policy FailurePolicy
}

func (structuredJoin) Kind() Kind { return StructuredJoin }

// Execute starts one Future per operation and suspends on their combined
// join. Under FailFast the join returns with the first failure while the
// other futures run to completion in the background.
func (s structuredJoin) Execute(ctx context.Context, b *Batch) error {
	return s.join(ctx, b, Submit(ctx, b))
}

func (s structuredJoin) join(ctx context.Context, b *Batch, futures []*Future[string]) error {
	if s.policy == CollectAll {
		_, _, err := JoinSettled(ctx, futures...)
		if err != nil {
			return b.joinError(ctx)
		}
		return b.settle(ctx, nil)
	}

	if _, err := JoinAll(ctx, futures...); err != nil {
		var opErr *apperrors.OperationError
		switch {
		case ctx.Err() != nil:
			return b.joinError(ctx)
		case errors.As(err, &opErr):
			return &apperrors.RunError{Strategy: b.kind.String(), Failures: []*apperrors.OperationError{opErr}}
		default:
			return err
		}
	}
	return nil
}

// Submit starts every operation of b as a Future and returns the futures in
// submission order. Each future resolves to its operation's value, or to the
// *apperrors.OperationError it failed with.
func Submit(ctx context.Context, b *Batch) []*Future[string] {
	futures := make([]*Future[string], b.Len())
	for i := range futures {
		futures[i] = Go(ctx, func(ctx context.Context) (string, error) {
			if err := b.Execute(ctx, i, 0); err != nil {
				return "", err
			}
			v, _ := b.value(i)
			return v, nil
		})
	}
	return futures
}

type fireAndForget struct {
	structuredJoin
}

func (fireAndForget) Kind() Kind { return FireAndForget }
