package orchestration

import (
	"sync"
	"time"

	"github.com/agbru/concurbench/internal/format"
	"github.com/agbru/concurbench/internal/harness"
)

// ProgressAggregator manages progress aggregation across the operations of
// one or more runs. It wraps format.ProgressWithETA and provides a
// higher-level API for consuming progress updates from a channel. Both CLI
// and TUI use this to avoid duplicating the aggregation logic.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numOperations int
}

// NewProgressAggregator creates a new aggregator for the given number
// of operations. Returns nil if numOperations <= 0.
func NewProgressAggregator(numOperations int) *ProgressAggregator {
	if numOperations <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numOperations),
		numOperations: numOperations,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Index is the index of the operation that sent the update.
	Index int
	// Strategy is the strategy the operation ran under.
	Strategy harness.Kind
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the aggregated average across all operations.
	AverageProgress float64
	// ETA is the estimated time remaining based on smoothed progress rate.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Strategy:        update.Strategy,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
// Useful for periodic refresh between updates (e.g., CLI ticker).
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumOperations returns the number of operations being tracked.
func (a *ProgressAggregator) NumOperations() int {
	return a.numOperations
}

// IsMultiOperation returns true if tracking more than one operation.
func (a *ProgressAggregator) IsMultiOperation() bool {
	return a.numOperations > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}

// progressSink is the progress channel shared by the observers of one
// comparison. Operations may finish after their join has returned, so
// updates from an entry other than the active one, or arriving after close,
// are dropped.
type progressSink struct {
	mu     sync.RWMutex
	ch     chan ProgressUpdate
	entry  int
	closed bool
}

func newProgressSink(size int) *progressSink {
	return &progressSink{ch: make(chan ProgressUpdate, size)}
}

// begin makes entry the one whose updates are forwarded.
func (s *progressSink) begin(entry int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = entry
}

func (s *progressSink) send(entry int, u ProgressUpdate) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed || s.entry != entry {
		return
	}
	// Never block a worker on a slow reporter.
	select {
	case s.ch <- u:
	default:
	}
}

// close closes the channel once; later sends are dropped.
func (s *progressSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// progressObserver turns the finished operations of one comparison entry
// into progress updates.
type progressObserver struct {
	harness.NopObserver
	sink   *progressSink
	entry  int
	offset int
}

func (p progressObserver) OperationFinished(ev harness.OperationEvent) {
	p.sink.send(p.entry, ProgressUpdate{Index: p.offset + ev.Index, Value: 1, Strategy: ev.Strategy})
}
