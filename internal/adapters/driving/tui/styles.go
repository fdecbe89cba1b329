package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles for the chat view.
type Styles struct {
	// Title style for the header.
	Title lipgloss.Style

	// Question style for user questions.
	Question lipgloss.Style

	// Answer style for model answers.
	Answer lipgloss.Style

	// Muted style for hints and metadata.
	Muted lipgloss.Style

	// Error style for error messages.
	Error lipgloss.Style

	// InputBorder frames the question input.
	InputBorder lipgloss.Style
}

// DefaultStyles returns the default chat styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1),
		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#06B6D4")),
		Answer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")),
		InputBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}
