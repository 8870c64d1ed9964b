// ABOUTME: lipgloss styles and pane sizes for the terminal chat client
// ABOUTME: Shared by the list pane, thread header, entry badges and notices

package tui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 32

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))

	sidebarPane = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	sidebarFocusedPane = sidebarPane.BorderForeground(lipgloss.Color("170"))

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62"))
	endedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	userBadge   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	aiBadge     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("124")).Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Align(lipgloss.Center).
				PaddingTop(2)
)
