package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/concurbench/internal/harness"
)

// StrategyResult encapsulates the outcome of running the batch under one
// strategy. It is the shared domain type between orchestration and
// presentation layers.
type StrategyResult struct {
	// Kind is the strategy that was run.
	Kind harness.Kind
	// Result is the assembled run result. For a failed run it holds whatever
	// completed before the failure was reported.
	Result harness.RunResult
	// Duration is the wall-clock time from submission to completion.
	Duration time.Duration
	// Submit is the time FireAndForget took to return control to the caller.
	// It is zero for the blocking strategies.
	Submit time.Duration
	// Err contains any error the run ended with.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose     bool
	ShowWorkers bool
}

// ProgressUpdate reports that one operation of a comparison has finished.
type ProgressUpdate struct {
	// Index is the position of the operation across the whole comparison:
	// run number times batch size plus operation index.
	Index int
	// Value is the completion fraction of the operation (always 1 today).
	Value float64
	// Strategy is the strategy the operation ran under.
	Strategy harness.Kind
}

// ProgressReporter defines the interface for displaying run progress.
// This interface decouples the orchestration layer from the presentation
// layer.
//
// Implementations handle the visual representation of progress (spinners,
// progress bars, etc.) while the orchestration layer focuses on coordinating
// the runs.
type ProgressReporter interface {
	// DisplayProgress starts displaying progress updates from the channel.
	// It should be called in a separate goroutine and will run until the
	// progressChan is closed.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving one update per finished operation.
	//   - numOperations: The total number of operations being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numOperations int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numOperations int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numOperations int, out io.Writer) {
	f(wg, progressChan, numOperations, out)
}

// NullProgressReporter is a no-op implementation of ProgressReporter.
// It drains the progress channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting run results.
// This interface decouples the orchestration layer from presentation
// concerns, allowing different output formats (CLI, JSON, etc.) without
// modifying the orchestration logic.
type ResultPresenter interface {
	// PresentComparisonTable displays the comparison summary table.
	PresentComparisonTable(results []StrategyResult, out io.Writer)

	// PresentResult displays the outcome of a single strategy.
	PresentResult(result StrategyResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles run errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
