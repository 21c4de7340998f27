package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/concurbench/internal/format"
	"github.com/agbru/concurbench/internal/metrics"
)

// MetricsModel displays runtime and process metrics next to the lanes.
type MetricsModel struct {
	runtime  metrics.RuntimeSnapshot
	baseline metrics.RuntimeSnapshot
	hasBase  bool
	threads  int32
	rss      uint64
	progress float64
	eta      time.Duration
	width    int
	height   int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates the runtime reading. The first reading after
// MarkBaseline becomes the reference for the deltas shown.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.runtime = msg.RuntimeSnapshot
	if !m.hasBase {
		m.baseline = msg.RuntimeSnapshot
		m.hasBase = true
	}
}

// UpdateSysStats updates the process reading.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.threads = msg.Threads
	m.rss = msg.RSS
}

// UpdateProgress records the aggregated session progress.
func (m *MetricsModel) UpdateProgress(progress float64, eta time.Duration) {
	m.progress = progress
	m.eta = eta
}

// MarkBaseline makes the next runtime reading the reference for deltas.
func (m *MetricsModel) MarkBaseline() {
	m.hasBase = false
	m.progress = 0
	m.eta = 0
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder

	rows.WriteString(sectionTitleStyle.Render("RUNTIME"))
	rows.WriteString("\n")

	colWidth := max((m.width-6)/2, 20)
	threadsDelta := m.runtime.ThreadsCreated - m.baseline.ThreadsCreated
	gcDelta := m.runtime.NumGC - m.baseline.NumGC

	left := []string{
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.runtime.Goroutines), colWidth),
		formatMetricCol("OS threads:", fmt.Sprintf("%d (+%d created)", m.threads, threadsDelta), colWidth),
		formatMetricCol("Progress:", format.FormatProgressBarWithETA(m.progress, m.eta, 10), colWidth),
	}
	right := []string{
		formatMetricCol("Heap:", formatBytes(m.runtime.HeapAlloc)+" / "+formatBytes(m.runtime.Sys), colWidth),
		formatMetricCol("RSS:", formatBytes(m.rss), colWidth),
		formatMetricCol("GC:", fmt.Sprintf("%d (+%d, %.1fms)", m.runtime.NumGC, gcDelta, float64(m.runtime.PauseTotalNs)/1e6), colWidth),
	}
	for i := range left {
		rows.WriteString(left[i])
		rows.WriteString(right[i])
		if i < len(left)-1 {
			rows.WriteString("\n")
		}
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-12s", label)),
		metricValueStyle.Render(value))
	// Pad to fixed column width using lipgloss-aware width
	visible := lipgloss.Width(cell)
	if visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
