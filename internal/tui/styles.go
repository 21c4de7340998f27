package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/concurbench/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	versionStyle       lipgloss.Style
	elapsedStyle       lipgloss.Style
	sectionTitleStyle  lipgloss.Style
	tableHeaderStyle   lipgloss.Style
	cursorRowStyle     lipgloss.Style
	mutedStyle         lipgloss.Style
	successStyle       lipgloss.Style
	errorStyle         lipgloss.Style
	infoStyle          lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	laneEmptyStyle     lipgloss.Style
	laneStyles         []lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
	threadSparkStyle   lipgloss.Style
	overlayStyle       lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	sectionTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Info)

	tableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Dim)

	cursorRowStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	mutedStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	successStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	errorStyle = lipgloss.NewStyle().
		Foreground(t.Error)

	infoStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	metricLabelStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	metricValueStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	laneEmptyStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	n := len(t.Lanes)
	if n == 0 {
		n = 1
	}
	laneStyles = make([]lipgloss.Style, n)
	for i := range laneStyles {
		laneStyles[i] = lipgloss.NewStyle().Foreground(t.Lane(i))
	}

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusPausedStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	memSparklineStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	threadSparkStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	overlayStyle = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(t.Accent).
		Padding(1, 2)
}

// laneStyle returns the timeline style for operation index i.
func laneStyle(i int) lipgloss.Style {
	if i < 0 {
		i = 0
	}
	return laneStyles[i%len(laneStyles)]
}
