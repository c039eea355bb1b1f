package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/termchat/internal/chat"
	"github.com/atomicstack/termchat/internal/command"
	"github.com/atomicstack/termchat/internal/connection"
	"github.com/atomicstack/termchat/internal/eventsource"
	"github.com/atomicstack/termchat/internal/logging/events"
	"github.com/atomicstack/termchat/internal/message"
	"github.com/atomicstack/termchat/internal/theme"
	"github.com/atomicstack/termchat/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	Identity    string
	Server      string
	Width       int
	Height      int
	ShowFooter  bool
	OutboxSize  int
	PromptColor string
}

// session holds everything Run builds before starting the program.
type session struct {
	source *eventsource.Source
	worker *connection.Worker
	model  *ui.Model
}

// newSession wires the event source, the connection worker and the model.
// A failed dial is reported in the message log and the session continues
// offline.
func newSession(ctx context.Context, cfg Config) *session {
	src := eventsource.New(eventsource.DefaultBuffer)
	s := &session{source: src}

	var outbox chat.Outbox = connection.Offline{Inject: src.Sender()}
	server := cfg.Server
	if server != "" {
		worker, err := connection.Dial(ctx, connection.Config{
			URL:       server,
			Identity:  cfg.Identity,
			QueueSize: cfg.OutboxSize,
		}, src.Sender())
		if err != nil {
			_ = src.Sender().TrySend(chat.Notification{
				Entry: message.WithForeground(fmt.Sprintf("could not connect: %v", err), chat.ErrorColor),
			})
			server = ""
		} else {
			s.worker = worker
			outbox = worker
		}
	}

	dispatcher := chat.NewDispatcher(chat.NewState(), []byte(cfg.Identity), command.Parse, outbox, src.Sender())
	s.model = ui.NewModel(ctx, dispatcher, src, ui.Options{
		Identity:   cfg.Identity,
		Server:     server,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Styles:     theme.Default().WithPromptColor(cfg.PromptColor),
	})
	return s
}

// close stops the source before the worker; the worker's reader may be
// blocked injecting into the source.
func (s *session) close() {
	s.source.Close()
	if s.worker != nil {
		_ = s.worker.Close()
	}
}

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg Config) (err error) {
	defer func() { events.App.Exit(err) }()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newSession(ctx, cfg)
	defer s.close()

	program := tea.NewProgram(s.model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		err = nil
	}
	if err != nil {
		return err
	}
	return s.model.Err()
}
