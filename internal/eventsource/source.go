// Package eventsource carries events injected from other goroutines (the
// connection worker, the dispatcher itself) to the single consumer that owns
// the dispatch loop. Any number of Senders may push; exactly one goroutine
// should call Next.
package eventsource

import (
	"context"
	"errors"
	"sync"

	"github.com/atomicstack/termchat/internal/chat"
	"github.com/atomicstack/termchat/internal/logging/events"
	"github.com/atomicstack/termchat/internal/message"
)

// DefaultBuffer is the injection queue depth used when none is given.
const DefaultBuffer = 64

var (
	// ErrClosed is returned once the source has been closed.
	ErrClosed = errors.New("event source closed")
	// ErrFull is returned by TrySend when the queue has no room.
	ErrFull = errors.New("event source full")
)

// Source is a multi-producer, single-consumer queue of chat events.
type Source struct {
	events chan chat.Event
	done   chan struct{}
	once   sync.Once
}

// New creates a source with the given queue depth.
func New(buffer int) *Source {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Source{
		events: make(chan chat.Event, buffer),
		done:   make(chan struct{}),
	}
}

// Sender returns a handle that may be copied freely between goroutines.
func (s *Source) Sender() Sender {
	return Sender{src: s}
}

// Next blocks until an event is available. Events queued before Close are
// still delivered; once drained, a closed source returns ErrClosed.
func (s *Source) Next(ctx context.Context) (chat.Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	default:
	}
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.done:
		select {
		case ev := <-s.events:
			return ev, nil
		default:
			return nil, ErrClosed
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the source. It is safe to call more than once.
func (s *Source) Close() {
	s.once.Do(func() {
		close(s.done)
		events.Source.Closed()
	})
}

// Closed reports whether Close has been called.
func (s *Source) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Sender pushes events into a Source.
type Sender struct {
	src *Source
}

// Send queues ev, waiting for room if the queue is full.
func (s Sender) Send(ev chat.Event) error {
	if s.src == nil || s.src.Closed() {
		return ErrClosed
	}
	select {
	case <-s.src.done:
		return ErrClosed
	case s.src.events <- ev:
		return nil
	}
}

// TrySend queues ev without waiting. The dispatch goroutine uses it so it
// can never block on its own queue.
func (s Sender) TrySend(ev chat.Event) error {
	if s.src == nil || s.src.Closed() {
		return ErrClosed
	}
	select {
	case s.src.events <- ev:
		return nil
	default:
		return ErrFull
	}
}

// Notify queues a log entry for display.
func (s Sender) Notify(entry message.Entry) error {
	return s.Send(chat.Notification{Entry: entry})
}
