package message

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

// Style builds the lipgloss style carrying the entry's colours.
func Style(entry Entry) lipgloss.Style {
	style := lipgloss.NewStyle()
	if !entry.Foreground.IsReset() {
		style = style.Foreground(entry.Foreground.Terminal())
	}
	if !entry.Background.IsReset() {
		style = style.Background(entry.Background.Terminal())
	}
	return style
}

// Render turns an entry into display lines. Text is word-wrapped to width
// when width is positive, and words longer than width are broken so no
// line exceeds it. Each resulting line is styled separately so background
// colours do not bleed across the wrap.
func Render(entry Entry, width int) []string {
	text := strings.ReplaceAll(entry.Text, "\r", "")
	if width > 0 {
		text = wrap.String(wordwrap.String(text, width), width)
	}
	style := Style(entry)
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, style.Render(line))
	}
	return lines
}

// RenderAll renders every entry in order.
func RenderAll(entries []Entry, width int) []string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, Render(entry, width)...)
	}
	return lines
}
