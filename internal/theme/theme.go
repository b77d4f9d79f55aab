package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Loading      *lipgloss.Style
	TabActive    *lipgloss.Style
	TabInactive  *lipgloss.Style
	TabNotify    *lipgloss.Style
	TabSeparator *lipgloss.Style
	Header       *lipgloss.Style
	Footer       *lipgloss.Style
	Error        *lipgloss.Style
	Info         *lipgloss.Style
	ContentTitle *lipgloss.Style
	ContentBody  *lipgloss.Style
	ContentError *lipgloss.Style
	Filter       *lipgloss.Style
	FilterPrompt *lipgloss.Style
	SelectedItem *lipgloss.Style
	Item         *lipgloss.Style
}

var defaultStyles = Styles{
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	TabActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	TabInactive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	TabNotify: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	),
	TabSeparator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ContentTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	ContentBody: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	),
	ContentError: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
