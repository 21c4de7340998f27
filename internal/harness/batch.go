package harness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/operation"
)

// Batch is the completion tracker and result builder of a single run. It
// holds one write-once slot and one CompletionSignal per operation. A Batch
// is created by the Harness for each run and must not be reused.
type Batch struct {
	kind    Kind
	runID   string
	started time.Time
	ops     []operation.SlowOperation

	// Slot i is written only by the worker executing operation i, and only
	// before signals[i] fires. Readers check the signal first.
	values  []string
	errs    []*apperrors.OperationError
	workers []int
	claimed []atomic.Bool
	signals []*CompletionSignal

	// discarded is set when the strategy forbids partial result assembly.
	discarded atomic.Bool

	observer Observer
	tracer   trace.Tracer
	clock    func() time.Time
}

func newBatch(kind Kind, runID string, ops []operation.SlowOperation, started time.Time, observer Observer, tracer trace.Tracer, clock func() time.Time) *Batch {
	n := len(ops)
	b := &Batch{
		kind:     kind,
		runID:    runID,
		started:  started,
		ops:      ops,
		values:   make([]string, n),
		errs:     make([]*apperrors.OperationError, n),
		workers:  make([]int, n),
		claimed:  make([]atomic.Bool, n),
		signals:  make([]*CompletionSignal, n),
		observer: observer,
		tracer:   tracer,
		clock:    clock,
	}
	for i := range b.signals {
		b.signals[i] = NewCompletionSignal()
	}
	return b
}

// Len returns the number of operations in the batch.
func (b *Batch) Len() int { return len(b.ops) }

// Kind returns the strategy the batch is run under.
func (b *Batch) Kind() Kind { return b.kind }

// RunID returns the identifier of the run owning the batch.
func (b *Batch) RunID() string { return b.runID }

// Signal returns the completion signal of operation i.
func (b *Batch) Signal(i int) *CompletionSignal { return b.signals[i] }

// Execute runs operation i on the calling goroutine and records its outcome
// in slot i. The slot's signal fires when Execute returns, whatever the
// outcome, so a join never waits on a failed or panicking operation. worker
// identifies the executing worker in observer events.
//
// Returns:
//   - error: nil on success, otherwise an *apperrors.OperationError.
func (b *Batch) Execute(ctx context.Context, i, worker int) error {
	if !b.claimed[i].CompareAndSwap(false, true) {
		return fmt.Errorf("operation %d executed twice", i)
	}
	defer b.signals[i].Signal()

	op := b.ops[i]
	ctx, span := b.tracer.Start(ctx, "harness.operation", trace.WithAttributes(
		attribute.String("harness.run_id", b.runID),
		attribute.String("harness.strategy", b.kind.String()),
		attribute.Int("harness.index", i),
		attribute.String("harness.operation", op.Name()),
		attribute.Int("harness.worker", worker),
	))
	defer span.End()

	event := OperationEvent{
		RunID:    b.runID,
		Strategy: b.kind,
		Index:    i,
		Name:     op.Name(),
		Worker:   worker,
		Time:     b.clock(),
	}
	b.observer.OperationStarted(event)
	start := event.Time

	value, cause := compute(ctx, op)

	event.Time = b.clock()
	event.Elapsed = event.Time.Sub(start)
	b.workers[i] = worker
	if cause != nil {
		opErr := &apperrors.OperationError{Index: i, Name: op.Name(), Cause: cause}
		b.errs[i] = opErr
		span.RecordError(cause)
		span.SetStatus(codes.Error, cause.Error())
		event.Err = opErr
		b.observer.OperationFinished(event)
		return opErr
	}
	b.values[i] = value
	event.Value = value
	b.observer.OperationFinished(event)
	return nil
}

func compute(ctx context.Context, op operation.SlowOperation) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.PanicError{Value: r}
		}
	}()
	return op.Compute(ctx)
}

// Wait blocks until every operation has signaled completion. If ctx ends
// first it returns an apperrors.TimeoutError when the deadline passed, or the
// context's error otherwise.
func (b *Batch) Wait(ctx context.Context) error {
	for _, s := range b.signals {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return b.joinError(ctx)
		}
	}
	return nil
}

// Pending returns the number of operations that have not signaled yet.
func (b *Batch) Pending() int {
	n := 0
	for _, s := range b.signals {
		if s.State() == Pending {
			n++
		}
	}
	return n
}

// Failures returns the failures recorded by signaled operations, ordered by
// index.
func (b *Batch) Failures() []*apperrors.OperationError {
	var out []*apperrors.OperationError
	for i, s := range b.signals {
		select {
		case <-s.Done():
			if b.errs[i] != nil {
				out = append(out, b.errs[i])
			}
		default:
		}
	}
	return out
}

// value returns the recorded value of slot i. ok is false while the slot is
// still pending.
func (b *Batch) value(i int) (string, bool) {
	select {
	case <-b.signals[i].Done():
		return b.values[i], true
	default:
		return "", false
	}
}

// discard marks the batch so that its result carries no values.
func (b *Batch) discard() { b.discarded.Store(true) }

func (b *Batch) joinError(ctx context.Context) error {
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ctx.Err()
	}
	var limit time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		limit = deadline.Sub(b.started).Round(time.Millisecond)
	}
	return apperrors.TimeoutError{Operation: b.kind.String(), Limit: limit, Pending: b.Pending()}
}

// settle converts the state of a joined batch into the strategy's error.
// A failure caused by the run's context ending is reported as a join
// timeout or cancellation rather than as an operation failure.
func (b *Batch) settle(ctx context.Context, waitErr error) error {
	if waitErr != nil {
		return waitErr
	}
	failures := b.Failures()
	if len(failures) == 0 {
		return nil
	}
	if ctx.Err() != nil {
		for _, f := range failures {
			if apperrors.IsContextError(f.Cause) {
				return b.joinError(ctx)
			}
		}
	}
	return &apperrors.RunError{Strategy: b.kind.String(), Failures: failures}
}

// result assembles the immutable RunResult from the signaled slots.
func (b *Batch) result(elapsed time.Duration, err error) RunResult {
	res := RunResult{
		runID:    b.runID,
		strategy: b.kind,
		elapsed:  elapsed,
		err:      err,
	}
	for _, f := range b.Failures() {
		res.failures = append(res.failures, Failure{Index: f.Index, Name: f.Name, Err: f.Cause})
	}
	if b.discarded.Load() {
		return res
	}
	res.values = make([]string, b.Len())
	res.completed = make([]bool, b.Len())
	res.workers = make([]int, b.Len())
	for i := range res.values {
		v, ok := b.value(i)
		if !ok {
			continue
		}
		res.workers[i] = b.workers[i]
		if b.errs[i] == nil {
			res.values[i] = v
			res.completed[i] = true
		}
	}
	return res
}
