package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/termchat/internal/message"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	footerHint  = "enter send  backspace delete  ctrl+u clear  pgup/pgdn scroll  ctrl+c quit"
	placeholder = "(type a message or /command)"
	promptText  = "» "
)

// chromeRows counts the fixed rows around the log: header, separator, prompt.
const chromeRows = 3

func (m *Model) resize() {
	rows := chromeRows
	if m.showFooter {
		rows++
	}
	logHeight := m.height - rows
	if logHeight < 1 {
		logHeight = 1
	}
	m.log.Width = m.width
	m.log.Height = logHeight
	m.syncLog()
}

// syncLog re-renders the log when entries were added or the wrap width
// changed. The view follows new entries unless the user scrolled up.
func (m *Model) syncLog() {
	state := m.dispatcher.State()
	count := state.MessageCount()
	if count == m.logCount && m.width == m.logWidth {
		return
	}
	follow := m.log.AtBottom()
	entries := state.Snapshot().Messages
	m.log.SetContent(strings.Join(message.RenderAll(entries, m.width), "\n"))
	m.logCount = count
	m.logWidth = m.width
	if follow {
		m.log.GotoBottom()
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := make([]string, 0, 4)
	lines = append(lines, m.fit(m.headerLine()))
	lines = append(lines, m.log.View())
	sepWidth := m.width
	if sepWidth <= 0 {
		sepWidth = 1
	}
	lines = append(lines, m.render(m.styles.Separator, strings.Repeat("─", sepWidth)))
	lines = append(lines, m.fit(m.promptLine()))
	if m.showFooter {
		lines = append(lines, m.fit(m.render(m.styles.Footer, footerHint)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) headerLine() string {
	server := m.server
	if server == "" {
		server = "offline"
	}
	title := m.render(m.styles.Header, fmt.Sprintf("termchat · %s", m.identity))
	return title + " " + m.render(m.styles.Status, "@ "+server)
}

func (m *Model) promptLine() string {
	prompt := m.render(m.styles.Prompt, promptText)
	input := m.dispatcher.State().Input().String()
	if input == "" {
		runes := []rune(placeholder)
		m.caret.TextStyle = styleOrZero(m.styles.Placeholder)
		m.caret.SetChar(string(runes[0]))
		return prompt + m.caret.View() + m.render(m.styles.Placeholder, string(runes[1:]))
	}
	// keep the end of long input visible next to the caret
	if avail := m.width - lipgloss.Width(promptText) - 1; m.width > 0 && avail > 0 {
		if runes := []rune(input); len(runes) > avail {
			input = string(runes[len(runes)-avail:])
		}
	}
	m.caret.TextStyle = styleOrZero(m.styles.Input)
	m.caret.SetChar(" ")
	return prompt + m.render(m.styles.Input, input) + m.caret.View()
}

func (m *Model) render(style *lipgloss.Style, text string) string {
	if style == nil || text == "" {
		return text
	}
	return style.Render(text)
}

// fit truncates a rendered line to the terminal width.
func (m *Model) fit(line string) string {
	if m.width <= 0 {
		return line
	}
	return truncate.String(line, uint(m.width))
}

func styleOrZero(style *lipgloss.Style) lipgloss.Style {
	if style == nil {
		return lipgloss.Style{}
	}
	return *style
}
