package harness

import (
	"context"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/logging"
	"github.com/agbru/concurbench/internal/operation"
)

const tracerName = "github.com/agbru/concurbench/internal/harness"

// Harness submits batches of operations to strategies, times them and
// assembles their results. A Harness holds no per-run state and is safe for
// concurrent use; every run gets its own Batch.
type Harness struct {
	observers []Observer
	observer  Observer
	logger    logging.Logger
	tracer    trace.Tracer
	clock     func() time.Time
}

// Option configures a Harness.
type Option func(*Harness)

// WithObserver registers observers of run lifecycle events. Observers
// registered by successive options are all notified, in registration order.
func WithObserver(obs ...Observer) Option {
	return func(h *Harness) {
		for _, o := range obs {
			if o != nil {
				h.observers = append(h.observers, o)
			}
		}
	}
}

// WithLogger sets the logger used for harness diagnostics.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithTracer sets the OpenTelemetry tracer. By default the global tracer
// provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(h *Harness) { h.tracer = t }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) { h.clock = now }
}

// New returns a Harness configured with opts.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: logging.Nop(),
		tracer: otel.Tracer(tracerName),
		clock:  time.Now,
	}
	return h.apply(opts)
}

// With returns a copy of h with opts applied on top of its configuration.
// h itself is left unchanged.
func (h *Harness) With(opts ...Option) *Harness {
	c := *h
	c.observers = slices.Clone(h.observers)
	return c.apply(opts)
}

func (h *Harness) apply(opts []Option) *Harness {
	for _, opt := range opts {
		opt(h)
	}
	switch len(h.observers) {
	case 0:
		h.observer = NopObserver{}
	case 1:
		h.observer = h.observers[0]
	default:
		h.observer = Observers(h.observers)
	}
	return h
}

// RunOptions configures RunKind.
type RunOptions struct {
	Options
	// Timeout bounds the join of a blocking strategy. Zero means no limit.
	// When exceeded the run ends with an apperrors.TimeoutError and the
	// result holds only the operations that finished in time.
	Timeout time.Duration
}

// Outcome is the result of RunKind: a RunResult for the blocking strategies,
// or a Handle for FireAndForget.
type Outcome struct {
	Result RunResult
	Handle *Handle
}

// Run executes ops under s and blocks until the strategy's join completes.
//
// Parameters:
//   - ctx: Governs the run; operations receive it and the join honours it.
//   - s: The strategy.
//   - ops: The operations, in submission order.
//
// Returns:
//   - RunResult: The index-stable values and elapsed time. It is returned
//     even when err is non-nil and then holds whatever completed.
//   - error: A ValidationError for an empty batch, or the strategy's error.
func (h *Harness) Run(ctx context.Context, s Strategy, ops []operation.SlowOperation) (RunResult, error) {
	if len(ops) == 0 {
		return RunResult{}, apperrors.ValidationError{Field: "operations", Message: "at least one operation is required"}
	}
	return h.run(ctx, s, ops, ulid.Make().String(), h.clock())
}

type runState struct {
	ctx   context.Context
	span  trace.Span
	info  RunInfo
	batch *Batch
}

func (h *Harness) begin(ctx context.Context, kind Kind, ops []operation.SlowOperation, runID string, start time.Time) *runState {
	ctx, span := h.tracer.Start(ctx, "harness.run", trace.WithAttributes(
		attribute.String("harness.run_id", runID),
		attribute.String("harness.strategy", kind.String()),
		attribute.Int("harness.operations", len(ops)),
	))
	info := RunInfo{RunID: runID, Strategy: kind, Operations: len(ops), Started: start}
	h.observer.RunStarted(info)
	h.logger.Debug("dispatching batch",
		logging.String("run_id", runID),
		logging.String("strategy", kind.String()),
		logging.Int("operations", len(ops)))
	return &runState{
		ctx:   ctx,
		span:  span,
		info:  info,
		batch: newBatch(kind, runID, ops, start, h.observer, h.tracer, h.clock),
	}
}

func (h *Harness) finish(st *runState, err error) (RunResult, error) {
	defer st.span.End()
	res := st.batch.result(h.clock().Sub(st.info.Started), err)
	st.span.SetAttributes(attribute.Int64("harness.elapsed_ms", res.ElapsedMilliseconds()))
	if err != nil {
		st.span.RecordError(err)
		st.span.SetStatus(codes.Error, err.Error())
	}
	h.observer.RunFinished(st.info, res, err)
	return res, err
}

func (h *Harness) run(ctx context.Context, s Strategy, ops []operation.SlowOperation, runID string, start time.Time) (RunResult, error) {
	st := h.begin(ctx, s.Kind(), ops, runID, start)
	return h.finish(st, s.Execute(st.ctx, st.batch))
}

// RunKind builds the strategy of the given kind and runs ops under it.
// FireAndForget is dispatched to Launch and yields a Handle; every other
// kind blocks and yields a RunResult.
func (h *Harness) RunKind(ctx context.Context, kind Kind, opts RunOptions, ops []operation.SlowOperation) (Outcome, error) {
	if kind == FireAndForget {
		handle, err := h.Launch(ctx, opts.Options, ops)
		return Outcome{Handle: handle}, err
	}
	s, err := NewStrategy(kind, opts.Options)
	if err != nil {
		return Outcome{}, err
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	res, err := h.Run(ctx, s, ops)
	return Outcome{Result: res}, err
}

// Launch submits ops as futures and returns as soon as every operation has
// been started, without waiting for any of them. The combined join runs in
// the background and is bound to ctx only.
//
// Returns:
//   - *Handle: The handle to await the run with.
//   - error: A ValidationError for an empty batch.
func (h *Harness) Launch(ctx context.Context, opts Options, ops []operation.SlowOperation) (*Handle, error) {
	if len(ops) == 0 {
		return nil, apperrors.ValidationError{Field: "operations", Message: "at least one operation is required"}
	}
	start := h.clock()
	runID := ulid.Make().String()
	join := structuredJoin{policy: opts.Policy}
	st := h.begin(ctx, FireAndForget, ops, runID, start)
	futures := Submit(st.ctx, st.batch)

	handle := &Handle{runID: runID, done: make(chan struct{})}
	handle.submitElapsed = h.clock().Sub(start)
	go func() {
		defer close(handle.done)
		handle.result, handle.err = h.finish(st, join.join(st.ctx, st.batch, futures))
	}()
	h.logger.Debug("batch launched",
		logging.String("run_id", handle.runID),
		logging.Duration("submit", handle.submitElapsed))
	return handle, nil
}
