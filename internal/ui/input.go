package ui

import (
	"unicode"

	"github.com/atomicstack/termchat/internal/chat"
	tea "github.com/charmbracelet/bubbletea"
)

// translateKey maps a Bubble Tea key to chat events. Pasted or batched
// runes become one KeyPress per rune so the buffer sees them in order.
func translateKey(msg tea.KeyMsg) []chat.Event {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []chat.Event{chat.Interrupt{}}
	case tea.KeyEnter:
		return []chat.Event{chat.Press(chat.KeyEnter)}
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []chat.Event{chat.Press(chat.KeyBackspace)}
	case tea.KeyCtrlU:
		return []chat.Event{chat.Press(chat.KeyClear)}
	case tea.KeySpace:
		return []chat.Event{chat.Char(' ')}
	case tea.KeyRunes:
		if msg.Alt {
			return []chat.Event{chat.Press(chat.KeyOther)}
		}
		evs := make([]chat.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			if r == '\n' || r == '\t' {
				r = ' '
			}
			if unicode.IsControl(r) {
				continue
			}
			evs = append(evs, chat.Char(r))
		}
		return evs
	default:
		return []chat.Event{chat.Press(chat.KeyOther)}
	}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.Type {
	case tea.KeyPgUp:
		m.log.ViewUp()
		return nil
	case tea.KeyPgDown:
		m.log.ViewDown()
		return nil
	}
	cmds := make([]tea.Cmd, 0, 1)
	for _, ev := range translateKey(key) {
		if cmd := m.dispatch(ev); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if m.stopped {
			break
		}
	}
	return tea.Batch(cmds...)
}
