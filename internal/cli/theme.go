package cli

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title  lipgloss.Style
	Subtle lipgloss.Style
	OK     lipgloss.Style
	Error  lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true),
		Subtle: lipgloss.NewStyle().Faint(true),
		OK:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Error:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}
