package harness

import (
	"context"
	"sync/atomic"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
)

// Handle is the caller's only link to a FireAndForget run. Wait may complete
// at most once. A run whose handle is never awaited is abandoned, along with
// its failures, when the process exits.
type Handle struct {
	runID         string
	submitElapsed time.Duration
	done          chan struct{}
	consumed      atomic.Bool

	// Written once before done is closed.
	result RunResult
	err    error
}

// RunID returns the identifier of the background run.
func (h *Handle) RunID() string { return h.runID }

// SubmitElapsed returns how long Launch took to hand control back, which is
// the only time a FireAndForget launch itself measures.
func (h *Handle) SubmitElapsed() time.Duration { return h.submitElapsed }

// Done returns a channel closed once the background run has completed.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the background run completes and returns its result,
// whose elapsed time runs from launch to completion.
//
// A second Wait after one has returned the result fails with
// apperrors.ErrHandleAlreadyConsumed. A Wait abandoned because ctx ended
// returns ctx.Err() and does not consume the handle.
func (h *Handle) Wait(ctx context.Context) (RunResult, error) {
	if !h.consumed.CompareAndSwap(false, true) {
		return RunResult{}, apperrors.ErrHandleAlreadyConsumed
	}
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		h.consumed.Store(false)
		return RunResult{}, ctx.Err()
	}
}
