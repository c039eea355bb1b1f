package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/termchat/internal/chat"
	"github.com/atomicstack/termchat/internal/eventsource"
	"github.com/atomicstack/termchat/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

// waitForEvent pulls the next injected event. Only one wait is outstanding
// at a time; handleEventMsg re-arms it after each delivery.
func waitForEvent(ctx context.Context, src *eventsource.Source) tea.Cmd {
	return func() tea.Msg {
		ev, err := src.Next(ctx)
		if err != nil {
			return sourceClosedMsg{err: err}
		}
		return eventMsg{event: ev}
	}
}

type eventMsg struct {
	event chat.Event
}

type sourceClosedMsg struct {
	err error
}

func (m *Model) handleEventMsg(msg tea.Msg) tea.Cmd {
	evMsg, ok := msg.(eventMsg)
	if !ok {
		return nil
	}
	cmd := m.dispatch(evMsg.event)
	if m.stopped || m.source == nil {
		return cmd
	}
	wait := waitForEvent(m.ctx, m.source)
	if cmd != nil {
		return tea.Batch(cmd, wait)
	}
	return wait
}

// handleSourceClosedMsg ends the session. A closed source is fatal; a
// cancelled context is an orderly shutdown.
func (m *Model) handleSourceClosedMsg(msg tea.Msg) tea.Cmd {
	closed, ok := msg.(sourceClosedMsg)
	if !ok {
		return nil
	}
	m.stopped = true
	if errors.Is(closed.err, context.Canceled) || errors.Is(closed.err, context.DeadlineExceeded) {
		return tea.Quit
	}
	m.fatal = fmt.Errorf("event loop: %w", closed.err)
	logging.Error(m.fatal)
	return tea.Quit
}

// Stopped reports whether the loop has terminated.
func (m *Model) Stopped() bool {
	return m.stopped
}
