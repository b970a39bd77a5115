package tui

import "github.com/charmbracelet/lipgloss"

var (
	statusStyle     = lipgloss.NewStyle().Reverse(true)
	modeStyle       = lipgloss.NewStyle().Bold(true).Reverse(true)
	infoStyle       = lipgloss.NewStyle().Faint(true)
	warnStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B8860B"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C62828"))
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	selectedStyle   = lipgloss.NewStyle().Reverse(true)
	cursorStyle     = lipgloss.NewStyle().Reverse(true)
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	panelStyle      = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true)
)
