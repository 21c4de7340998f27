package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/concurbench/internal/harness"
	"github.com/agbru/concurbench/internal/orchestration"
)

// Status is the state of one strategy in the picker.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusComplete
	StatusError
)

// Column widths for the strategy table (shared between header and rows).
const (
	colWidthKey    = 3
	colWidthName   = 30
	colWidthDur    = 10
	colWidthValues = 8
	colWidthStatus = 6
)

type strategyRow struct {
	kind     harness.Kind
	status   Status
	duration time.Duration
	values   string
	err      error
	rank     int
}

// StrategiesModel is the strategy picker: one row per strategy with the
// outcome of its last run.
type StrategiesModel struct {
	rows   []strategyRow
	cursor int
	width  int
}

// NewStrategiesModel lists every strategy in menu order.
func NewStrategiesModel() StrategiesModel {
	kinds := harness.Kinds()
	rows := make([]strategyRow, len(kinds))
	for i, k := range kinds {
		rows[i] = strategyRow{kind: k}
	}
	return StrategiesModel{rows: rows}
}

// SetWidth updates the available width.
func (s *StrategiesModel) SetWidth(w int) { s.width = w }

// Up moves the cursor up.
func (s *StrategiesModel) Up() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// Down moves the cursor down.
func (s *StrategiesModel) Down() {
	if s.cursor < len(s.rows)-1 {
		s.cursor++
	}
}

// Select moves the cursor to kind.
func (s *StrategiesModel) Select(kind harness.Kind) {
	for i, r := range s.rows {
		if r.kind == kind {
			s.cursor = i
		}
	}
}

// Selected returns the strategy under the cursor.
func (s StrategiesModel) Selected() harness.Kind {
	return s.rows[s.cursor].kind
}

// Reset clears the outcome of kinds and marks them pending a run.
func (s *StrategiesModel) Reset(kinds []harness.Kind) {
	for i := range s.rows {
		s.rows[i].rank = 0
		for _, k := range kinds {
			if s.rows[i].kind == k {
				s.rows[i] = strategyRow{kind: k}
			}
		}
	}
}

// SetRunning marks kind as executing.
func (s *StrategiesModel) SetRunning(kind harness.Kind) {
	if r := s.row(kind); r != nil {
		r.status = StatusRunning
	}
}

// SetResult records the outcome of one run of kind.
func (s *StrategiesModel) SetResult(kind harness.Kind, result harness.RunResult, err error) {
	r := s.row(kind)
	if r == nil {
		return
	}
	r.duration = result.Elapsed()
	r.values = result.Joined()
	r.err = err
	r.status = StatusComplete
	if err != nil {
		r.status = StatusError
	}
}

// SetRanking ranks the successful strategies by the order of results,
// which AnalyzeComparisonResults sorts fastest first.
func (s *StrategiesModel) SetRanking(results []orchestration.StrategyResult) {
	rank := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		rank++
		if r := s.row(res.Kind); r != nil {
			r.rank = rank
			r.duration = res.Duration
		}
	}
}

// CancelRunning marks every running strategy as failed with err.
func (s *StrategiesModel) CancelRunning(err error) {
	for i := range s.rows {
		if s.rows[i].status == StatusRunning {
			s.rows[i].status = StatusError
			s.rows[i].err = err
		}
	}
}

func (s *StrategiesModel) row(kind harness.Kind) *strategyRow {
	for i := range s.rows {
		if s.rows[i].kind == kind {
			return &s.rows[i]
		}
	}
	return nil
}

// View renders the strategy table.
func (s StrategiesModel) View(focused bool) string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("STRATEGIES"))
	b.WriteString("\n")

	colKey := lipgloss.NewStyle().Width(colWidthKey)
	colName := lipgloss.NewStyle().Width(colWidthName)
	colDur := lipgloss.NewStyle().Width(colWidthDur).Align(lipgloss.Right)
	colValues := lipgloss.NewStyle().Width(colWidthValues).Align(lipgloss.Right)
	colStatus := lipgloss.NewStyle().Width(colWidthStatus).Align(lipgloss.Center)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		"  ", colKey.Render("#"), " ", colName.Render("Strategy"), " ",
		colDur.Render("Duration"), " ", colValues.Render("Values"), " ", colStatus.Render("Status"))
	b.WriteString(tableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, r := range s.rows {
		marker := "  "
		if focused && i == s.cursor {
			marker = "> "
		}

		key := fmt.Sprintf("%d", i+1)
		name := truncateString(fmt.Sprintf("%s (%s)", r.kind.Title(), r.kind), colWidthName)
		if r.rank == 1 {
			name = truncateString("* "+name, colWidthName)
		}

		dur, values := "-", "-"
		switch r.status {
		case StatusRunning:
			dur = "..."
		case StatusComplete, StatusError:
			dur = formatDuration(r.duration)
			if r.values != "" {
				values = r.values
			}
		}

		var statusText string
		statusStyle := colStatus
		switch r.status {
		case StatusIdle:
			statusText = "IDLE"
			statusStyle = statusStyle.Inherit(mutedStyle)
		case StatusRunning:
			statusText = "RUN"
			statusStyle = statusStyle.Inherit(statusRunningStyle)
		case StatusComplete:
			statusText = "OK"
			statusStyle = statusStyle.Inherit(successStyle)
		case StatusError:
			statusText = "ERR"
			statusStyle = statusStyle.Inherit(statusErrorStyle)
		}

		row := lipgloss.JoinHorizontal(lipgloss.Top,
			marker, colKey.Render(key), " ", colName.Render(name), " ",
			colDur.Render(dur), " ", colValues.Render(values), " ", statusStyle.Render(statusText))
		if focused && i == s.cursor {
			row = cursorRowStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateString truncates a string to maxLen characters, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
