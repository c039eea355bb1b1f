package chat

import (
	"errors"
	"fmt"

	"github.com/atomicstack/termchat/internal/command"
	"github.com/atomicstack/termchat/internal/logging/events"
	"github.com/atomicstack/termchat/internal/message"
)

// Outcome tells the caller whether to keep dispatching.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

// ParseFunc interprets a submitted line for identity. A nil outbound with a
// nil error means the line was consumed without anything to send.
type ParseFunc func(input string, identity []byte) (*command.Outbound, error)

// Outbox is the send side of the connection worker.
type Outbox interface {
	Send(command.Outbound) error
}

// Injector pushes events back into the event source without blocking.
type Injector interface {
	TrySend(Event) error
}

var errNoOutbox = errors.New("no connection")

// ErrorColor is the foreground used for locally reported failures.
const ErrorColor = message.Red

// Dispatcher applies events to State one at a time. It is not safe for
// concurrent use; a single goroutine owns it for the whole session.
type Dispatcher struct {
	state    *State
	identity []byte
	parse    ParseFunc
	outbox   Outbox
	injector Injector
}

// NewDispatcher wires the dispatcher to its collaborators. parse defaults to
// command.Parse when nil.
func NewDispatcher(state *State, identity []byte, parse ParseFunc, outbox Outbox, injector Injector) *Dispatcher {
	if parse == nil {
		parse = command.Parse
	}
	id := make([]byte, len(identity))
	copy(id, identity)
	return &Dispatcher{
		state:    state,
		identity: id,
		parse:    parse,
		outbox:   outbox,
		injector: injector,
	}
}

// State returns the state the dispatcher mutates.
func (d *Dispatcher) State() *State {
	return d.state
}

// Handle runs ev to completion.
func (d *Dispatcher) Handle(ev Event) Outcome {
	switch e := ev.(type) {
	case Interrupt:
		events.Input.Interrupt(d.state.Input().Len())
		if d.injector != nil {
			if err := d.injector.TrySend(Quit{}); err != nil {
				events.Input.InjectFailed(err)
			}
		}
		return Stop
	case Quit:
		return Stop
	case Notification:
		d.state.AppendMessage(e.Entry)
		events.Log.Append(e.Entry.Text, d.state.MessageCount())
	case KeyPress:
		d.handleKey(e)
	}
	return Continue
}

func (d *Dispatcher) handleKey(key KeyPress) {
	input := d.state.Input()
	switch key.Key {
	case KeyRune:
		input.Append(key.Rune)
		events.Input.Append(input.String())
	case KeyBackspace:
		if input.Backspace() {
			events.Input.Backspace(input.String())
		}
	case KeyClear:
		if input.Len() > 0 {
			input.Clear()
			events.Input.Cleared()
		}
	case KeyEnter:
		d.submit()
	}
}

// submit runs the Enter protocol. The buffer is cleared after a successful
// send and after a line that produced nothing to send; parse and send
// failures leave it untouched and add one log entry.
func (d *Dispatcher) submit() {
	input := d.state.Input()
	line := input.String()
	out, err := d.parse(line, d.identity)
	if err != nil {
		events.Submit.ParseError(line, err)
		d.reportError(err.Error())
		return
	}
	if out == nil {
		events.Submit.Consumed(line)
		input.Clear()
		return
	}
	if d.outbox == nil {
		events.Submit.SendError(string(out.Kind), errNoOutbox)
		d.reportError(fmt.Sprintf("error while sending message to connection handler: %v", errNoOutbox))
		return
	}
	if err := d.outbox.Send(*out); err != nil {
		events.Submit.SendError(string(out.Kind), err)
		d.reportError(fmt.Sprintf("error while sending message to connection handler: %v", err))
		return
	}
	events.Submit.Sent(string(out.Kind), out.Target)
	input.Clear()
}

func (d *Dispatcher) reportError(text string) {
	d.state.AppendMessage(message.WithForeground(text, ErrorColor))
}

