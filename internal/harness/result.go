package harness

import (
	"slices"
	"strings"
	"time"
)

// Failure describes one failed operation of a run.
type Failure struct {
	Index int
	Name  string
	Err   error
}

// RunResult is the immutable outcome of one run: the values in submission
// order, the per-operation failures and the wall-clock elapsed time.
//
// Value i always belongs to operation i, whatever the completion order.
// Slots of failed or unfinished operations hold the empty string, and a
// Sequential run that failed carries no values at all.
type RunResult struct {
	runID     string
	strategy  Kind
	values    []string
	completed []bool
	workers   []int
	failures  []Failure
	elapsed   time.Duration
	err       error
}

// RunID returns the run's unique identifier.
func (r RunResult) RunID() string { return r.runID }

// Strategy returns the strategy the run used.
func (r RunResult) Strategy() Kind { return r.strategy }

// Values returns a copy of the values in submission order.
func (r RunResult) Values() []string { return slices.Clone(r.values) }

// Value returns the value of operation i, or "" if it has none.
func (r RunResult) Value(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// Completed reports whether operation i finished successfully.
func (r RunResult) Completed(i int) bool {
	return i >= 0 && i < len(r.completed) && r.completed[i]
}

// Worker returns the worker that executed operation i (see OperationEvent).
func (r RunResult) Worker(i int) int {
	if i < 0 || i >= len(r.workers) {
		return 0
	}
	return r.workers[i]
}

// Failures returns a copy of the failures, ordered by index.
func (r RunResult) Failures() []Failure { return slices.Clone(r.failures) }

// Elapsed returns the wall-clock duration of the run.
func (r RunResult) Elapsed() time.Duration { return r.elapsed }

// ElapsedMilliseconds returns the elapsed time in whole milliseconds.
func (r RunResult) ElapsedMilliseconds() int64 { return r.elapsed.Milliseconds() }

// Joined concatenates the values in submission order.
func (r RunResult) Joined() string { return strings.Join(r.values, "") }

// Err returns the error the run ended with, or nil.
func (r RunResult) Err() error { return r.err }

// OK reports whether every operation completed successfully.
func (r RunResult) OK() bool {
	if r.err != nil || len(r.completed) == 0 {
		return false
	}
	for _, c := range r.completed {
		if !c {
			return false
		}
	}
	return true
}

// NewResult builds a successful RunResult from already assembled values,
// for presenters and tests that need a result without running a batch.
func NewResult(kind Kind, values []string, elapsed time.Duration) RunResult {
	completed := make([]bool, len(values))
	for i := range completed {
		completed[i] = true
	}
	return RunResult{
		strategy:  kind,
		values:    slices.Clone(values),
		completed: completed,
		workers:   make([]int, len(values)),
		elapsed:   elapsed,
	}
}
