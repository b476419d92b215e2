package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)

	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true)

	healthyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	unhealthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	unknownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1)
)
