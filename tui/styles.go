package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Width(4).
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555"))

	hiddenCardStyle = cardStyle.
			Foreground(lipgloss.Color("#888888"))

	revealedCardStyle = cardStyle.
				Foreground(lipgloss.Color("#FFFFFF")).
				BorderForeground(lipgloss.Color("#00AFFF")).
				Bold(true)

	matchedCardStyle = cardStyle.
				Foreground(lipgloss.Color("#00D75F")).
				BorderForeground(lipgloss.Color("#005F00"))

	cursorBorder = lipgloss.Color("#FFD700")

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	wonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	lostStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4500")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)
