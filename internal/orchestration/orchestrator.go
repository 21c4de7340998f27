package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking worker
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 2

// ExecuteStrategies runs the batch under each strategy in turn and collects
// one StrategyResult per strategy, in the order given.
//
// Runs never overlap: each starts after the previous one has been joined, so
// their timings do not contaminate each other. A FireAndForget run is awaited
// through its handle; its Submit time is recorded separately from Duration.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - h: The harness executing the runs.
//   - kinds: The strategies to execute.
//   - opts: Strategy options (pool size, failure policy, timeout).
//   - ops: The operations, in submission order.
//   - progressReporter: The progress reporter for displaying updates (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for displaying progress updates.
//
// Returns:
//   - []StrategyResult: A slice containing the result of each strategy.
func ExecuteStrategies(ctx context.Context, h *harness.Harness, kinds []harness.Kind, opts harness.RunOptions, ops []operation.SlowOperation, progressReporter ProgressReporter, out io.Writer) []StrategyResult {
	total := len(kinds) * len(ops)
	sink := newProgressSink(max(total, 1) * ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, sink.ch, total, out)

	results := make([]StrategyResult, len(kinds))
	for i, kind := range kinds {
		sink.begin(i)
		runner := h.With(harness.WithObserver(progressObserver{sink: sink, entry: i, offset: i * len(ops)}))
		results[i] = RunStrategy(ctx, runner, kind, opts, ops)
	}

	// Fail-fast joins and timeouts leave operations running; their late
	// updates are dropped by the closed sink.
	sink.close()
	displayWg.Wait()
	return results
}

// RunStrategy runs the batch under a single strategy and waits for it to
// complete, awaiting the handle of a FireAndForget run.
func RunStrategy(ctx context.Context, h *harness.Harness, kind harness.Kind, opts harness.RunOptions, ops []operation.SlowOperation) StrategyResult {
	outcome, err := h.RunKind(ctx, kind, opts, ops)
	if outcome.Handle == nil {
		return StrategyResult{Kind: kind, Result: outcome.Result, Duration: outcome.Result.Elapsed(), Err: err}
	}

	waitCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	res, err := outcome.Handle.Wait(waitCtx)
	if err != nil && res.RunID() == "" && apperrors.IsContextError(err) && ctx.Err() == nil {
		err = apperrors.TimeoutError{Operation: kind.String(), Limit: opts.Timeout}
	}
	return StrategyResult{
		Kind:     kind,
		Result:   res,
		Duration: res.Elapsed(),
		Submit:   outcome.Handle.SubmitElapsed(),
		Err:      err,
	}
}

// AnalyzeComparisonResults processes the results from multiple strategies and
// generates a summary report.
//
// It sorts the results by execution time, validates that every successful
// strategy assembled the same values in the same order, and displays a
// comparative table.
//
// Parameters:
//   - results: The slice of strategy results to analyze.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - errHandler: Maps the failure of an all-failed comparison to an exit code.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []StrategyResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValidResult *StrategyResult
	var firstError error
	successCount := 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else {
			successCount++
			if firstValidResult == nil {
				firstValidResult = &results[i]
			}
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed the batch.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	want := firstValidResult.Result.Joined()
	for _, res := range results {
		if res.Err == nil && res.Result.Joined() != want {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s assembled %q but %s assembled %q.\n",
				firstValidResult.Kind, want, res.Kind, res.Result.Joined())
			return apperrors.ExitErrorMismatch
		}
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All completed strategies assembled the same values.\n")
	presenter.PresentResult(*firstValidResult, opts, out)
	return apperrors.ExitSuccess
}
