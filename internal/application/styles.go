package application

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	menuLabelStyle    = lipgloss.NewStyle()
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15"))
	separatorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	gridHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	gridCellStyle   = lipgloss.NewStyle()
	gridRowStyle    = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	gridCursorStyle = lipgloss.NewStyle().Reverse(true)

	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)
