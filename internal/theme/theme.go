package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header      *lipgloss.Style
	Prompt      *lipgloss.Style
	Input       *lipgloss.Style
	Placeholder *lipgloss.Style
	Cursor      *lipgloss.Style
	Separator   *lipgloss.Style
	Footer      *lipgloss.Style
	Status      *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Prompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Input: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
	Placeholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Blink(true),
	),
	Separator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// WithPromptColor returns a copy of s whose prompt uses color. An empty
// color keeps the default.
func (s *Styles) WithPromptColor(color string) *Styles {
	dup := *s
	if color == "" {
		return &dup
	}
	dup.Prompt = ptr(s.Prompt.Foreground(lipgloss.Color(color)))
	return &dup
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
