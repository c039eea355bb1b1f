// Package connection owns the network session with the chat server. The
// dispatch loop talks to it only through Send; inbound frames come back as
// injected chat events.
package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/atomicstack/termchat/internal/chat"
	"github.com/atomicstack/termchat/internal/command"
	"github.com/atomicstack/termchat/internal/logging"
	"github.com/atomicstack/termchat/internal/logging/events"
	"github.com/atomicstack/termchat/internal/message"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

// IdentityHeader carries the local username during the handshake.
const IdentityHeader = "X-Chat-Identity"

const (
	defaultQueueSize    = 64
	defaultWriteTimeout = 5 * time.Second
	defaultDialTimeout  = 10 * time.Second
)

var (
	// ErrClosed is returned by Send once the session has ended.
	ErrClosed = errors.New("connection closed")
	// ErrBacklog is returned by Send when the outbound queue is full.
	ErrBacklog = errors.New("outbound queue full")
	// ErrNotConnected is returned by Offline.Send.
	ErrNotConnected = errors.New("not connected to a server")

	errQuit = errors.New("quit requested")
)

// Config describes how to reach the server.
type Config struct {
	URL          string
	Identity     string
	QueueSize    int
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// Injector delivers events to the dispatch loop.
type Injector interface {
	Send(chat.Event) error
}

// Worker runs a reader and a writer goroutine over one websocket.
type Worker struct {
	conn         *websocket.Conn
	inject       Injector
	outbound     chan command.Outbound
	writeTimeout time.Duration

	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
	finished chan struct{}

	mu  sync.Mutex
	err error
}

// Dial connects to cfg.URL and starts the worker.
func Dial(ctx context.Context, cfg Config, inject Injector) (*Worker, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
	}
	header := http.Header{}
	header.Set(IdentityHeader, cfg.Identity)
	events.Conn.Dial(cfg.URL, cfg.Identity)
	conn, _, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}
	return start(conn, cfg, inject), nil
}

func start(conn *websocket.Conn, cfg Config, inject Injector) *Worker {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		conn:         conn,
		inject:       inject,
		outbound:     make(chan command.Outbound, size),
		writeTimeout: writeTimeout,
		cancel:       cancel,
		done:         make(chan struct{}),
		finished:     make(chan struct{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.writeLoop(gctx) })
	g.Go(func() error { return w.readLoop(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		w.markDone()
		return w.conn.Close()
	})
	go func() {
		w.finish(g.Wait())
	}()
	return w
}

// Send queues out for the writer. It never blocks.
func (w *Worker) Send(out command.Outbound) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}
	select {
	case w.outbound <- out:
		return nil
	default:
		return ErrBacklog
	}
}

// Close ends the session and waits for both goroutines to exit.
func (w *Worker) Close() error {
	w.cancel()
	<-w.finished
	return nil
}

// Done is closed once the worker stops accepting messages.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Err returns the error that ended the session, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Worker) markDone() {
	w.doneOnce.Do(func() { close(w.done) })
}

func (w *Worker) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			deadline := time.Now().Add(w.writeTimeout)
			_ = w.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return nil
		case out := <-w.outbound:
			frame := frameFromOutbound(out, time.Now())
			if err := w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout)); err != nil {
				return fmt.Errorf("set write deadline: %w", err)
			}
			if err := w.conn.WriteJSON(frame); err != nil {
				return fmt.Errorf("write %s frame: %w", frame.Type, err)
			}
			events.Conn.Write(frame.ID, frame.Type)
			if out.Kind == command.KindQuit {
				return errQuit
			}
		}
	}
}

func (w *Worker) readLoop(ctx context.Context) error {
	for {
		var frame Frame
		if err := w.conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		events.Conn.Read(frame.ID, frame.Type)
		if err := w.inject.Send(chat.Notification{Entry: frame.Entry()}); err != nil {
			return fmt.Errorf("deliver %s frame: %w", frame.Type, err)
		}
	}
}

// finish reports how the session ended. A quit request ends the loop; any
// other failure is surfaced in the message log.
func (w *Worker) finish(err error) {
	defer close(w.finished)
	w.markDone()
	events.Conn.Closed(err)
	if err == nil {
		return
	}
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
	if errors.Is(err, errQuit) {
		_ = w.inject.Send(chat.Quit{})
		return
	}
	logging.Error(err)
	_ = w.inject.Send(chat.Notification{
		Entry: message.WithForeground(fmt.Sprintf("connection lost: %v", err), message.Red),
	})
}

// Offline is the outbox used when no server is configured. Every send fails
// except /quit, which ends the session through Inject.
type Offline struct {
	Inject chat.Injector
}

func (o Offline) Send(out command.Outbound) error {
	if out.Kind == command.KindQuit && o.Inject != nil {
		return o.Inject.TrySend(chat.Quit{})
	}
	return ErrNotConnected
}
