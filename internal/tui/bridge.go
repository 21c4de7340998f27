package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/format"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIObserver implements harness.Observer by forwarding lifecycle events
// to the dashboard.
type TUIObserver struct {
	ref *programRef
	gen uint64
}

// Verify interface compliance.
var _ harness.Observer = (*TUIObserver)(nil)

func (o *TUIObserver) RunStarted(info harness.RunInfo) {
	o.ref.Send(RunStartedMsg{Info: info, Generation: o.gen})
}

func (o *TUIObserver) OperationStarted(ev harness.OperationEvent) {
	o.ref.Send(OperationStartedMsg{Event: ev, Generation: o.gen})
}

func (o *TUIObserver) OperationFinished(ev harness.OperationEvent) {
	o.ref.Send(OperationFinishedMsg{Event: ev, Generation: o.gen})
}

func (o *TUIObserver) RunFinished(info harness.RunInfo, result harness.RunResult, err error) {
	o.ref.Send(RunFinishedMsg{Info: info, Result: result, Err: err, Generation: o.gen})
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the progress channel and forwards updates as bubbletea messages.
type TUIProgressReporter struct {
	ref *programRef
	gen uint64
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the progress channel and sends ProgressMsg to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numOperations int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numOperations)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	for update := range progressChan {
		ap := agg.Update(update)
		t.ref.Send(ProgressMsg{
			Index:           ap.Index,
			Strategy:        ap.Strategy,
			AverageProgress: ap.AverageProgress,
			ETA:             ap.ETA,
			Generation:      t.gen,
		})
	}
	t.ref.Send(ProgressDoneMsg{Generation: t.gen})
}

// TUIResultPresenter implements orchestration.ResultPresenter.
// It sends result messages to the TUI instead of writing to stdout.
type TUIResultPresenter struct {
	ref *programRef
	gen uint64
}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = (*TUIResultPresenter)(nil)
	_ orchestration.DurationFormatter = (*TUIResultPresenter)(nil)
	_ orchestration.ErrorHandler      = (*TUIResultPresenter)(nil)
)

// PresentComparisonTable sends comparison results to the TUI.
func (t *TUIResultPresenter) PresentComparisonTable(results []orchestration.StrategyResult, _ io.Writer) {
	sorted := make([]orchestration.StrategyResult, len(results))
	copy(sorted, results)
	t.ref.Send(ComparisonResultsMsg{Results: sorted, Generation: t.gen})
}

// PresentResult sends the final result to the TUI.
func (t *TUIResultPresenter) PresentResult(result orchestration.StrategyResult, _ orchestration.PresentationOptions, _ io.Writer) {
	t.ref.Send(FinalResultMsg{Result: result, Generation: t.gen})
}

// FormatDuration delegates to the shared formatter.
func (t *TUIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError sends an error message to the TUI and returns the exit code.
func (t *TUIResultPresenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	if err != nil {
		t.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: t.gen})
	}
	return apperrors.HandleRunError(err, duration, io.Discard, nil)
}
