// Package ui holds the color themes shared by the menu, the run command and
// the dashboard. Plain-terminal output uses the ANSI helpers in colors.go;
// the dashboard uses the lipgloss palette from GetCurrentTUITheme.
//
// Colors are disabled by --no-color or by the NO_COLOR environment variable.
package ui
