package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("237"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	filterOn     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	progressSty  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	completeSty  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "PENDING":
		return pendingStyle
	case "INPROGRESS":
		return progressSty
	case "COMPLETE":
		return completeSty
	}
	return lipgloss.NewStyle()
}
