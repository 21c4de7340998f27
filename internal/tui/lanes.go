package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/operation"
)

type laneState int

const (
	laneWaiting laneState = iota
	laneRunning
	laneDone
	laneFailed
)

// lane is the timeline of one operation in the current run.
type lane struct {
	name    string
	latency time.Duration
	started time.Time
	elapsed time.Duration
	worker  int
	value   string
	err     error
	state   laneState
}

// progress returns the completed fraction of the lane at now. A running
// operation with unknown latency never reports more than half.
func (l lane) progress(now time.Time) float64 {
	switch l.state {
	case laneDone, laneFailed:
		return 1
	case laneRunning:
		if l.latency <= 0 {
			return 0.5
		}
		p := float64(now.Sub(l.started)) / float64(l.latency)
		return min(max(p, 0), 0.99)
	default:
		return 0
	}
}

// LanesModel draws one lane per operation of the run in progress, showing
// which operations overlap and on which worker each one ran.
type LanesModel struct {
	ops      []operation.SlowOperation
	lanes    []lane
	strategy harness.Kind
	runID    string
	started  time.Time
	active   bool
	width    int
}

// NewLanesModel creates idle lanes for ops.
func NewLanesModel(ops []operation.SlowOperation) LanesModel {
	l := LanesModel{ops: ops, strategy: -1}
	l.reset()
	return l
}

func (l *LanesModel) reset() {
	l.lanes = make([]lane, len(l.ops))
	for i, op := range l.ops {
		l.lanes[i] = lane{name: op.Name(), latency: operation.LatencyOf(op)}
	}
}

// SetWidth updates the available width.
func (l *LanesModel) SetWidth(w int) { l.width = w }

// Start resets the lanes for a new run.
func (l *LanesModel) Start(info harness.RunInfo) {
	l.reset()
	l.strategy = info.Strategy
	l.runID = info.RunID
	l.started = info.Started
	l.active = true
}

// OperationStarted marks a lane as running.
func (l *LanesModel) OperationStarted(ev harness.OperationEvent) {
	if !l.accepts(ev) {
		return
	}
	ln := &l.lanes[ev.Index]
	ln.state = laneRunning
	ln.started = ev.Time
	ln.worker = ev.Worker
}

// OperationFinished marks a lane as done or failed.
func (l *LanesModel) OperationFinished(ev harness.OperationEvent) {
	if !l.accepts(ev) {
		return
	}
	ln := &l.lanes[ev.Index]
	if ln.state == laneWaiting {
		ln.started = ev.Time.Add(-ev.Elapsed)
	}
	ln.elapsed = ev.Elapsed
	ln.value = ev.Value
	ln.err = ev.Err
	ln.worker = ev.Worker
	ln.state = laneDone
	if ev.Err != nil {
		ln.state = laneFailed
	}
}

// Finish marks the run as joined.
func (l *LanesModel) Finish() { l.active = false }

func (l LanesModel) accepts(ev harness.OperationEvent) bool {
	return ev.RunID == l.runID && ev.Index >= 0 && ev.Index < len(l.lanes)
}

// View renders the lanes at now.
func (l LanesModel) View(now time.Time) string {
	var b strings.Builder
	title := "LANES"
	if l.strategy >= 0 {
		title = fmt.Sprintf("LANES - %s", l.strategy.Title())
	}
	b.WriteString(sectionTitleStyle.Render(title))
	b.WriteString("\n")

	nameWidth := 8
	for _, ln := range l.lanes {
		nameWidth = max(nameWidth, len(ln.name))
	}
	barWidth := max(l.width-nameWidth-34, 10)

	for i, ln := range l.lanes {
		bar := renderLaneBar(i, ln.progress(now), barWidth)

		var detail string
		switch ln.state {
		case laneWaiting:
			detail = mutedStyle.Render("waiting")
		case laneRunning:
			detail = infoStyle.Render(fmt.Sprintf("running %s", formatDuration(now.Sub(ln.started))))
		case laneDone:
			detail = successStyle.Render(fmt.Sprintf("%s in %s", ln.value, formatDuration(ln.elapsed)))
		case laneFailed:
			detail = errorStyle.Render(truncateString(fmt.Sprintf("failed: %v", ln.err), 24))
		}

		fmt.Fprintf(&b, "%s %s %-10s %s\n",
			laneStyle(i).Render(fmt.Sprintf("%-*s", nameWidth, ln.name)),
			bar,
			workerLabel(l.strategy, ln.worker, ln.state),
			detail)
	}

	if l.strategy == harness.FireAndForget && l.active {
		b.WriteString(mutedStyle.Render("control returned to the caller; awaiting the handle"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// workerLabel names where an operation ran.
func workerLabel(kind harness.Kind, worker int, state laneState) string {
	if state == laneWaiting {
		return ""
	}
	switch {
	case kind == harness.ThreadPerTask && worker > 0:
		return fmt.Sprintf("tid %d", worker)
	case worker > 0:
		return fmt.Sprintf("worker %d", worker)
	case kind == harness.Sequential:
		return "caller"
	default:
		return "task"
	}
}

// renderLaneBar renders a progress bar of exact width in the lane color.
func renderLaneBar(i int, progress float64, width int) string {
	filled := int(progress * float64(width))
	filled = min(max(filled, 0), width)
	return laneStyle(i).Render(strings.Repeat("█", filled)) +
		laneEmptyStyle.Render(strings.Repeat("░", width-filled))
}
