package harness

import (
	"context"

	apperrors "github.com/agbru/concurbench/internal/errors"
)

// Strategy schedules the operations of a Batch and joins them.
//
// Execute must arrange for every operation it starts to be run through
// Batch.Execute with its own index. It returns nil when every operation
// succeeded, an *apperrors.RunError describing the failures, or a join error
// (apperrors.TimeoutError, context.Canceled) when ctx ended first.
type Strategy interface {
	Kind() Kind
	Execute(ctx context.Context, b *Batch) error
}

// FailurePolicy selects how a structured join reacts to a failing operation.
type FailurePolicy int

const (
	// FailFast completes the join as soon as any operation fails.
	FailFast FailurePolicy = iota
	// CollectAll waits for every operation and reports all failures.
	CollectAll
)

func (p FailurePolicy) String() string {
	if p == CollectAll {
		return "collect-all"
	}
	return "fail-fast"
}

// ParseFailurePolicy resolves "fail-fast" or "collect-all".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "fail-fast", "failfast", "":
		return FailFast, nil
	case "collect-all", "collectall", "settled":
		return CollectAll, nil
	}
	return FailFast, apperrors.NewConfigError("unknown failure policy %q (valid: fail-fast, collect-all)", s)
}

// DefaultPoolSize is the worker pool size used when none is configured.
const DefaultPoolSize = 3

// Options configures strategy construction.
type Options struct {
	// PoolSize is the number of workers of a WorkerPool. It must be at least 1.
	PoolSize int
	// Policy selects the failure policy of StructuredJoin and FireAndForget.
	Policy FailurePolicy
}

// NewStrategy builds the strategy of the given kind.
//
// Parameters:
//   - kind: The strategy to build.
//   - opts: Strategy options; only WorkerPool and the structured joins read them.
//
// Returns:
//   - Strategy: The strategy.
//   - error: apperrors.ErrPoolCapacityExhausted for a WorkerPool smaller than
//     one worker, or a ConfigError for an unknown kind.
func NewStrategy(kind Kind, opts Options) (Strategy, error) {
	switch kind {
	case Sequential:
		return sequential{}, nil
	case ThreadPerTask:
		return threadPerTask{}, nil
	case WorkerPool:
		return NewWorkerPool(opts.PoolSize)
	case StructuredJoin:
		return structuredJoin{policy: opts.Policy}, nil
	case FireAndForget:
		return fireAndForget{structuredJoin{policy: opts.Policy}}, nil
	}
	return nil, apperrors.NewConfigError("unknown strategy kind %d", int(kind))
}
