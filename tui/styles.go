package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	colorAccent  = "#E4572E"
	colorOK      = "#04B575"
	colorFail    = "#FF4D4D"
	colorMuted   = "#7A7A7A"
	colorLight   = "#FAFAFA"
	colorOutline = "#F3A712"
)

var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)).
		MarginTop(1)

	StatusStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorOK))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorFail))

	InfoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted))

	// BoxStyle frames the list of published parts
	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorOutline)).
		Padding(0, 2)

	HighlightStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorLight)).
		Background(lipgloss.Color(colorAccent)).
		Padding(0, 1)
)
