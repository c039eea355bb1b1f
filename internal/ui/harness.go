package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and returns the resulting command
// without running it; commands may block on the event source.
func (h *Harness) Send(msg tea.Msg) tea.Cmd {
	if h.model == nil {
		return nil
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	return cmd
}

// Type sends text as a single runes key message.
func (h *Harness) Type(text string) {
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// Press sends a non-rune key.
func (h *Harness) Press(key tea.KeyType) tea.Cmd {
	return h.Send(tea.KeyMsg{Type: key})
}

// Pump waits for the next injected event and routes it through the model,
// the way the running program would.
func (h *Harness) Pump(ctx context.Context) tea.Cmd {
	if h.model == nil || h.model.source == nil {
		return nil
	}
	return h.Send(waitForEvent(ctx, h.model.source)())
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
