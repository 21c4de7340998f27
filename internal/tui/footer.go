package tui

import (
	"github.com/charmbracelet/bubbles/help"
)

// FooterModel renders the status indicator and key help.
type FooterModel struct {
	help    help.Model
	keys    KeyMap
	running bool
	paused  bool
	failed  bool
	width   int
}

// NewFooterModel creates a footer for keys.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = metricValueStyle
	h.Styles.ShortDesc = mutedStyle
	h.Styles.FullKey = metricValueStyle
	h.Styles.FullDesc = mutedStyle
	return FooterModel{help: h, keys: keys}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// SetRunning sets whether a session is executing.
func (f *FooterModel) SetRunning(running bool) { f.running = running }

// SetPaused sets whether sampling is paused.
func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }

// SetError sets whether the last session failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// ToggleFullHelp switches between short and full key help.
func (f *FooterModel) ToggleFullHelp() { f.help.ShowAll = !f.help.ShowAll }

// ShowingFullHelp reports whether the full key help is shown.
func (f FooterModel) ShowingFullHelp() bool { return f.help.ShowAll }

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.paused:
		status = statusPausedStyle.Render("PAUSED")
	case f.running:
		status = statusRunningStyle.Render("RUNNING")
	case f.failed:
		status = statusErrorStyle.Render("FAILED")
	default:
		status = statusDoneStyle.Render("READY")
	}
	return " " + status + "  " + f.help.View(f.keys)
}
