package tui

import (
	"time"

	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/metrics"
	"github.com/agbru/concurbench/internal/orchestration"
	"github.com/agbru/concurbench/internal/sysmon"
)

// Messages sent from a session carry the generation they belong to, so the
// model can drop events of a session it has already canceled.

// RunStartedMsg is sent when a strategy run begins.
type RunStartedMsg struct {
	Info       harness.RunInfo
	Generation uint64
}

// OperationStartedMsg is sent when an operation begins on its worker.
type OperationStartedMsg struct {
	Event      harness.OperationEvent
	Generation uint64
}

// OperationFinishedMsg is sent when an operation signals completion.
type OperationFinishedMsg struct {
	Event      harness.OperationEvent
	Generation uint64
}

// RunFinishedMsg is sent when a strategy's join completes.
type RunFinishedMsg struct {
	Info       harness.RunInfo
	Result     harness.RunResult
	Err        error
	Generation uint64
}

// ProgressMsg carries aggregated progress across the session.
type ProgressMsg struct {
	Index           int
	Strategy        harness.Kind
	AverageProgress float64
	ETA             time.Duration
	Generation      uint64
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct {
	Generation uint64
}

// ComparisonResultsMsg carries the sorted results of a comparison.
type ComparisonResultsMsg struct {
	Results    []orchestration.StrategyResult
	Generation uint64
}

// FinalResultMsg carries the result chosen for display.
type FinalResultMsg struct {
	Result     orchestration.StrategyResult
	Generation uint64
}

// ErrorMsg carries a session-level failure.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// SessionCompleteMsg is sent when every strategy of a session has been run.
type SessionCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// TickMsg drives sampling and the lane animation.
type TickMsg time.Time

// MemStatsMsg carries a Go runtime snapshot.
type MemStatsMsg struct {
	metrics.RuntimeSnapshot
}

// SysStatsMsg carries a system and process snapshot.
type SysStatsMsg struct {
	sysmon.Stats
}

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}
