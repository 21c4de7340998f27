package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/concurbench/internal/format"
)

// HeaderModel renders the top bar: title, version, current strategy, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	strategy  string
	runID     string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{version: version}
}

// Start restarts the elapsed timer for a new session.
func (h *HeaderModel) Start(now time.Time) {
	h.startTime = now
	h.endTime = time.Time{}
	h.strategy = ""
	h.runID = ""
}

// SetRun records the strategy and run id currently executing.
func (h *HeaderModel) SetRun(strategy, runID string) {
	h.strategy = strategy
	h.runID = runID
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone(now time.Time) {
	if !h.startTime.IsZero() && h.endTime.IsZero() {
		h.endTime = now
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the session duration so far.
func (h HeaderModel) Elapsed(now time.Time) time.Duration {
	switch {
	case h.startTime.IsZero():
		return 0
	case !h.endTime.IsZero():
		return h.endTime.Sub(h.startTime)
	default:
		return now.Sub(h.startTime)
	}
}

// View renders the header.
func (h HeaderModel) View(now time.Time) string {
	titleText := "concurbench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	left := titleStyle.Render(titleText)

	if h.strategy != "" {
		left += pipe + elapsedStyle.Render(h.strategy)
	}
	left += pipe + elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed(now))))

	right := ""
	if h.runID != "" {
		right = versionStyle.Render("run " + h.runID)
	}

	innerWidth := max(h.width-2, 0)
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(innerWidth-lipgloss.Width(left), 0)
	}

	return headerStyle.Width(h.width).Render(left + spaces(gap) + right)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
