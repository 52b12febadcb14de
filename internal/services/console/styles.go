package console

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Faint(true)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	detailStyle    = lipgloss.NewStyle().Faint(true)

	blockStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			Padding(0, 1)
	activeBlockStyle = blockStyle.BorderForeground(lipgloss.Color("12"))

	historicalStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	selectedStyle   = lipgloss.NewStyle().Reverse(true)
	copiedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	emptyStyle      = lipgloss.NewStyle().Italic(true).Faint(true)

	toastStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	helpStyle  = lipgloss.NewStyle().Faint(true)
)
