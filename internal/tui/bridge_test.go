package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/agbru/concurbench/internal/errors"
	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/orchestration"
)

func TestTUIProgressReporter_DrainsChannel(t *testing.T) {
	ref := &programRef{} // nil program - Send is a no-op

	reporter := &TUIProgressReporter{ref: ref}

	ch := make(chan orchestration.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)

	ch <- orchestration.ProgressUpdate{Index: 0, Value: 1}
	ch <- orchestration.ProgressUpdate{Index: 1, Value: 1}
	ch <- orchestration.ProgressUpdate{Index: 2, Value: 1}
	close(ch)

	go reporter.DisplayProgress(&wg, ch, 3, nil)
	wg.Wait()

	// If we reach here without deadlock, the channel was fully drained.
}

func TestTUIProgressReporter_ZeroOperations(t *testing.T) {
	ref := &programRef{}
	reporter := &TUIProgressReporter{ref: ref}

	ch := make(chan orchestration.ProgressUpdate, 5)
	ch <- orchestration.ProgressUpdate{Index: 0, Value: 1}
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 0, nil)
	wg.Wait()
}

func TestTUIProgressReporter_EmptyChannel(t *testing.T) {
	ref := &programRef{}
	reporter := &TUIProgressReporter{ref: ref}

	ch := make(chan orchestration.ProgressUpdate)
	close(ch)

	var wg sync.WaitGroup
	wg.Add(1)
	go reporter.DisplayProgress(&wg, ch, 1, nil)
	wg.Wait()
}

func TestTUIResultPresenter_FormatDuration(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}}

	tests := []struct {
		name  string
		input time.Duration
	}{
		{"zero", 0},
		{"microseconds", 500 * time.Microsecond},
		{"milliseconds", 42 * time.Millisecond},
		{"seconds", 2*time.Second + 500*time.Millisecond},
		{"minutes", 3 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if presenter.FormatDuration(tt.input) == "" {
				t.Errorf("expected non-empty duration format for %v", tt.input)
			}
		})
	}
}

func TestProgramRef_Send_NilProgram(t *testing.T) {
	ref := &programRef{} // program is nil
	// Should not panic
	ref.Send(ProgressMsg{AverageProgress: 0.5})
}

func TestProgramRef_Send_Concurrent(t *testing.T) {
	ref := &programRef{} // nil program - Send is a no-op

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Send(ProgressMsg{AverageProgress: float64(i) / 100})
		}()
	}
	wg.Wait()
}

func TestTUIResultPresenter_Present(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}}

	results := []orchestration.StrategyResult{
		{Kind: harness.StructuredJoin, Result: harness.NewResult(harness.StructuredJoin, []string{"1", "2", "3"}, 5*time.Second), Duration: 5 * time.Second},
		{Kind: harness.Sequential, Result: harness.NewResult(harness.Sequential, []string{"1", "2", "3"}, 10*time.Second), Duration: 10 * time.Second},
	}
	// Should not panic
	presenter.PresentComparisonTable(results, nil)
	presenter.PresentResult(results[0], orchestration.PresentationOptions{Verbose: true}, nil)
}

func TestTUIResultPresenter_HandleError(t *testing.T) {
	presenter := &TUIResultPresenter{ref: &programRef{}}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperrors.ExitSuccess},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout},
		{"join timeout", apperrors.TimeoutError{Operation: "parallel", Limit: time.Second}, apperrors.ExitErrorTimeout},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled},
		{"pool capacity", apperrors.ErrPoolCapacityExhausted, apperrors.ExitErrorConfig},
		{"generic", errors.New("something failed"), apperrors.ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := presenter.HandleError(tt.err, time.Second, nil); got != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTUIObserver_ForwardsWithoutProgram(t *testing.T) {
	obs := &TUIObserver{ref: &programRef{}, gen: 3}
	h := harness.New(harness.WithObserver(obs))

	outcome, err := h.RunKind(context.Background(), harness.ThreadPerTask, harness.RunOptions{}, fastOps())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := outcome.Result.Joined(); got != "123" {
		t.Errorf("expected 123, got %q", got)
	}
}
