package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader = lipgloss.NewStyle().Bold(true)

	styleMuted = lipgloss.NewStyle().Faint(true)

	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	styleToast = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	styleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	styleFieldLabel = lipgloss.NewStyle().Bold(true)

	styleFilterActive = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)

	statusColors = map[string]lipgloss.Style{
		"todo":        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"done":        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func statusStyle(status string) lipgloss.Style {
	if s, ok := statusColors[status]; ok {
		return s
	}
	return styleMuted
}
