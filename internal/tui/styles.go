package tui

import "github.com/charmbracelet/lipgloss"

var (
	errorColor = lipgloss.Color("#e53935")
	mutedColor = lipgloss.Color("#6b7280")
	cardColor  = lipgloss.Color("#2196F3")
)

// Styles holds the lipgloss styles used to draw the form.
type Styles struct {
	Title   lipgloss.Style
	Prompt  lipgloss.Style
	Error   lipgloss.Style
	Pending lipgloss.Style
	Card    lipgloss.Style
	Heading lipgloss.Style
	Label   lipgloss.Style
	Help    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Prompt:  lipgloss.NewStyle().Foreground(cardColor),
		Error:   lipgloss.NewStyle().Foreground(errorColor),
		Pending: lipgloss.NewStyle().Foreground(mutedColor),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardColor).
			Padding(0, 1),
		Heading: lipgloss.NewStyle().Bold(true),
		Label:   lipgloss.NewStyle().Bold(true),
		Help:    lipgloss.NewStyle().Foreground(mutedColor),
	}
}
