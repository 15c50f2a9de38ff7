package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Background(colorSurface0).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Background(colorMantle).
				Foreground(colorTabOff).
				Padding(0, 1)
	tabSepStyle = lipgloss.NewStyle().Foreground(colorBorder)

	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)

	passedBadgeStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningBadgeStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorBadgeStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
	cardErrorStyle = cardStyle.BorderForeground(colorError)
	cardWarnStyle  = cardStyle.BorderForeground(colorWarning)

	toastStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 1)
	toastErrStyle = toastStyle.Foreground(colorError)

	keyStyle      = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// helpLine renders "[k] Action" pairs in the footer style.
func helpLine(pairs ...string) string {
	out := ""
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			out += "  "
		}
		out += keyStyle.Render("["+pairs[i]+"]") + " " + helpDescStyle.Render(pairs[i+1])
	}
	return out
}
