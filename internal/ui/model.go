package ui

import (
	"context"
	"reflect"

	"github.com/atomicstack/termchat/internal/chat"
	"github.com/atomicstack/termchat/internal/eventsource"
	"github.com/atomicstack/termchat/internal/theme"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the presentation of the chat model. A zero Width or
// Height follows the terminal size.
type Options struct {
	Identity   string
	Server     string
	Width      int
	Height     int
	ShowFooter bool
	Styles     *theme.Styles
}

// Model implements the Bubble Tea model for the chat client.
type Model struct {
	ctx        context.Context
	dispatcher *chat.Dispatcher
	source     *eventsource.Source

	identity    string
	server      string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	styles      *theme.Styles

	log        viewport.Model
	logCount   int
	logWidth   int
	caret      cursor.Model
	caretDirty bool
	lastInput  string
	stopped    bool
	fatal      error
	handlers   map[reflect.Type]msgHandler
}

// NewModel wraps the dispatcher. source may be nil when nothing injects
// events (tests).
func NewModel(ctx context.Context, dispatcher *chat.Dispatcher, source *eventsource.Source, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	styles := opts.Styles
	if styles == nil {
		styles = theme.Default()
	}
	m := &Model{
		ctx:         ctx,
		dispatcher:  dispatcher,
		source:      source,
		identity:    opts.Identity,
		server:      opts.Server,
		width:       opts.Width,
		height:      opts.Height,
		fixedWidth:  opts.Width > 0,
		fixedHeight: opts.Height > 0,
		showFooter:  opts.ShowFooter,
		styles:      styles,
		log:         viewport.New(opts.Width, 0),
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Input != nil {
		c.TextStyle = *styles.Input
	}
	c.SetChar(" ")
	m.caret = c
	m.resize()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.source != nil {
		cmds = append(cmds, waitForEvent(m.ctx, m.source))
	}
	if cmd := m.caret.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 3)
	if m.stopped {
		return m, nil
	}
	var cmd tea.Cmd
	m.caret, cmd = m.caret.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(eventMsg{}):          m.handleEventMsg,
		reflect.TypeOf(sourceClosedMsg{}):   m.handleSourceClosedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// dispatch hands ev to the dispatcher and turns a Stop outcome into tea.Quit.
func (m *Model) dispatch(ev chat.Event) tea.Cmd {
	outcome := m.dispatcher.Handle(ev)
	m.syncLog()
	if input := m.dispatcher.State().Input().String(); input != m.lastInput {
		m.lastInput = input
		m.caretDirty = true
	}
	if outcome == chat.Stop {
		m.stopped = true
		return tea.Quit
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.caretDirty && !m.stopped {
		m.caretDirty = false
		m.caret.Blink = false
		if cmd := m.caret.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	// a configured size wins over the terminal's
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.resize()
	return nil
}

// Err returns the fatal error that ended the session, if any.
func (m *Model) Err() error {
	return m.fatal
}

// Dispatcher exposes the underlying dispatcher.
func (m *Model) Dispatcher() *chat.Dispatcher {
	return m.dispatcher
}
