// Package ui provides the visual styling for the snooper CLI: styled panels,
// the question prompt, and markdown rendering of analysis answers.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors
var (
	ColorInfo    = lipgloss.Color("#2196F3") // Blue
	ColorSuccess = lipgloss.Color("#8BC34A") // Lime Green
	ColorWarning = lipgloss.Color("#FFC107") // Yellow
	ColorError   = lipgloss.Color("#e53935") // Red
	ColorMuted   = lipgloss.Color("#808080")
)

var (
	// TitleStyle renders the banner line.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// InfoStyle renders informational lines.
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// ErrorStyle renders error lines.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// MutedStyle renders secondary detail.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorInfo).
			Padding(0, 2)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorInfo)

	errorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Padding(0, 2)
)

// Banner renders the program banner.
func Banner(text string) string {
	return panelStyle.Render(TitleStyle.Render(text))
}

// Panel renders content in a rounded-border box with a title line.
func Panel(title, content string) string {
	if title == "" {
		return panelStyle.Render(content)
	}
	return panelStyle.Render(panelTitleStyle.Render(title) + "\n\n" + content)
}

// ErrorPanel renders content in a red-bordered box.
func ErrorPanel(title, content string) string {
	if title == "" {
		return errorPanelStyle.Render(content)
	}
	return errorPanelStyle.Render(ErrorStyle.Render(title) + "\n\n" + content)
}
