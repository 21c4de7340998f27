package tui

import (
	"fmt"
	"strings"
)

// ChartModel plots recent CPU, memory and OS thread samples as sparklines.
// Thread counts are scaled to the largest value in the window, so the jump
// caused by one-thread-per-task stands out.
type ChartModel struct {
	cpuHistory    *History
	memHistory    *History
	threadHistory *History
	width         int
}

// NewChartModel creates a chart with a default history window.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory:    NewHistory(40),
		memHistory:    NewHistory(40),
		threadHistory: NewHistory(40),
	}
}

// SetSize resizes the history buffers to fit the panel width.
func (c *ChartModel) SetSize(w int) {
	c.width = w
	capacity := max(w-22, 10)
	c.cpuHistory.Resize(capacity)
	c.memHistory.Resize(capacity)
	c.threadHistory.Resize(capacity)
}

// UpdateSysStats appends one system sample.
func (c *ChartModel) UpdateSysStats(msg SysStatsMsg) {
	c.cpuHistory.Push(msg.CPUPercent)
	c.memHistory.Push(msg.MemPercent)
	c.threadHistory.Push(float64(msg.Threads))
}

// Reset clears all history.
func (c *ChartModel) Reset() {
	c.cpuHistory.Reset()
	c.memHistory.Reset()
	c.threadHistory.Reset()
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(sectionTitleStyle.Render("SYSTEM"))
	b.WriteString("\n")
	fmt.Fprintf(&b, " %s %s %s\n",
		metricLabelStyle.Render("CPU    "),
		cpuSparklineStyle.Render(RenderSparkline(c.cpuHistory.Values())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.cpuHistory.Last())))
	fmt.Fprintf(&b, " %s %s %s\n",
		metricLabelStyle.Render("MEM    "),
		memSparklineStyle.Render(RenderSparkline(c.memHistory.Values())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", c.memHistory.Last())))
	fmt.Fprintf(&b, " %s %s %s",
		metricLabelStyle.Render("THREADS"),
		threadSparkStyle.Render(RenderScaledSparkline(c.threadHistory.Values(), c.threadHistory.Peak())),
		metricValueStyle.Render(fmt.Sprintf("%5.0f", c.threadHistory.Last())))
	return panelStyle.Width(max(c.width-2, 0)).Render(b.String())
}
