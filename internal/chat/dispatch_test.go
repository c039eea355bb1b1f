package chat

import (
	"errors"
	"testing"

	"github.com/atomicstack/termchat/internal/command"
	"github.com/atomicstack/termchat/internal/message"
	"github.com/google/go-cmp/cmp"
)

type fakeOutbox struct {
	sent []command.Outbound
	err  error
}

func (f *fakeOutbox) Send(out command.Outbound) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, out)
	return nil
}

type fakeInjector struct {
	events []Event
	err    error
}

func (f *fakeInjector) TrySend(ev Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type parseResult struct {
	out *command.Outbound
	err error
}

// stubParse returns a fixed result and records what it was called with.
func stubParse(res parseResult, calls *[]string) ParseFunc {
	return func(input string, identity []byte) (*command.Outbound, error) {
		if calls != nil {
			*calls = append(*calls, input+"|"+string(identity))
		}
		return res.out, res.err
	}
}

func newTestDispatcher(parse ParseFunc, outbox Outbox) (*Dispatcher, *fakeInjector) {
	inj := &fakeInjector{}
	return NewDispatcher(NewState(), []byte("alice"), parse, outbox, inj), inj
}

func typeString(d *Dispatcher, text string) {
	for _, r := range text {
		d.Handle(Char(r))
	}
}

func TestKeyPressesConcatenate(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "héllo, wörld")
	if got := d.State().Input().String(); got != "héllo, wörld" {
		t.Fatalf("expected buffer to equal typed text, got %q", got)
	}
	if d.State().MessageCount() != 0 {
		t.Fatalf("typing must not touch the log")
	}
}

var inputSequences = []string{
	"",
	"a",
	"hello",
	"héllo wörld",
	"  spaced  ",
	"日本語",
	"/msg bob hi",
	"tab\there",
}

func TestTypedSequencesConcatenate(t *testing.T) {
	for _, first := range inputSequences {
		for _, second := range inputSequences {
			d, _ := newTestDispatcher(nil, &fakeOutbox{})
			typeString(d, first)
			if got := d.State().Input().String(); got != first {
				t.Fatalf("after %q: expected buffer %q, got %q", first, first, got)
			}
			typeString(d, second)
			if got, want := d.State().Input().String(), first+second; got != want {
				t.Fatalf("after %q then %q: expected buffer %q, got %q", first, second, want, got)
			}
			if d.State().MessageCount() != 0 {
				t.Fatalf("typing %q then %q must not touch the log", first, second)
			}
		}
	}
}

func TestBackspaceSequences(t *testing.T) {
	// \b in keys stands for a backspace press
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"lone backspace", "\b", ""},
		{"repeated on empty", "\b\b\b", ""},
		{"after text", "ab\b", "a"},
		{"erase all", "abc\b\b\b", ""},
		{"more than typed", "a\b\b\bb", "b"},
		{"multibyte", "日本\b語", "日語"},
		{"middle of sequence", "he\bllo", "hllo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDispatcher(nil, &fakeOutbox{})
			for _, r := range tt.keys {
				ev := Event(Char(r))
				if r == '\b' {
					ev = Press(KeyBackspace)
				}
				if outcome := d.Handle(ev); outcome != Continue {
					t.Fatalf("expected Continue for %q", r)
				}
			}
			if got := d.State().Input().String(); got != tt.want {
				t.Fatalf("expected buffer %q, got %q", tt.want, got)
			}
			if d.State().MessageCount() != 0 {
				t.Fatalf("backspace must not log anything")
			}
		})
	}
}

func TestBackspace(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "ab")
	d.Handle(Press(KeyBackspace))
	if got := d.State().Input().String(); got != "a" {
		t.Fatalf("expected 'a', got %q", got)
	}
	d.Handle(Press(KeyBackspace))
	if outcome := d.Handle(Press(KeyBackspace)); outcome != Continue {
		t.Fatalf("backspace on empty buffer should continue")
	}
	if got := d.State().Input().String(); got != "" {
		t.Fatalf("expected empty buffer, got %q", got)
	}
	if d.State().MessageCount() != 0 {
		t.Fatalf("backspace on empty buffer must not log an error")
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "x")
	d.Handle(Press(KeyOther))
	if got := d.State().Snapshot(); got.Input != "x" || len(got.Messages) != 0 {
		t.Fatalf("unexpected state after ignored key: %#v", got)
	}
}

func TestClearKeyEmptiesBuffer(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "draft")
	d.Handle(Press(KeyClear))
	if got := d.State().Input().String(); got != "" {
		t.Fatalf("expected cleared buffer, got %q", got)
	}
}

func TestEnterSendsAndClears(t *testing.T) {
	outbox := &fakeOutbox{}
	out := &command.Outbound{Kind: command.KindChat, From: "alice", Body: "hi!"}
	var calls []string
	d, _ := newTestDispatcher(stubParse(parseResult{out: out}, &calls), outbox)

	typeString(d, "hi")
	d.Handle(Char('!'))
	if got := d.State().Input().String(); got != "hi!" {
		t.Fatalf("expected 'hi!', got %q", got)
	}
	d.Handle(Press(KeyEnter))

	if diff := cmp.Diff([]string{"hi!|alice"}, calls); diff != "" {
		t.Fatalf("parse calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]command.Outbound{*out}, outbox.sent); diff != "" {
		t.Fatalf("sent mismatch (-want +got):\n%s", diff)
	}
	if got := d.State().Input().String(); got != "" {
		t.Fatalf("expected buffer cleared after send, got %q", got)
	}
	if d.State().MessageCount() != 0 {
		t.Fatalf("outbound messages are not echoed locally")
	}
}

func TestEnterWithRealParser(t *testing.T) {
	outbox := &fakeOutbox{}
	d, _ := newTestDispatcher(nil, outbox)
	typeString(d, "/msg bob hey")
	d.Handle(Press(KeyEnter))
	want := []command.Outbound{{Kind: command.KindDirect, From: "alice", Target: "bob", Body: "hey"}}
	if diff := cmp.Diff(want, outbox.sent); diff != "" {
		t.Fatalf("sent mismatch (-want +got):\n%s", diff)
	}
}

func TestEnterParseErrorKeepsBuffer(t *testing.T) {
	outbox := &fakeOutbox{}
	d, _ := newTestDispatcher(stubParse(parseResult{err: errors.New("unknown command")}, nil), outbox)
	typeString(d, "/bad")
	d.Handle(Press(KeyEnter))

	if got := d.State().Input().String(); got != "/bad" {
		t.Fatalf("expected buffer preserved, got %q", got)
	}
	want := []message.Entry{{Text: "unknown command", Foreground: ErrorColor}}
	if diff := cmp.Diff(want, d.State().Snapshot().Messages); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
	if len(outbox.sent) != 0 {
		t.Fatalf("nothing should be sent on parse error")
	}
}

func TestEnterSendFailureKeepsBuffer(t *testing.T) {
	outbox := &fakeOutbox{err: errors.New("worker gone")}
	out := &command.Outbound{Kind: command.KindChat, Body: "unsent"}
	d, _ := newTestDispatcher(stubParse(parseResult{out: out}, nil), outbox)
	typeString(d, "unsent")
	d.Handle(Press(KeyEnter))

	if got := d.State().Input().String(); got != "unsent" {
		t.Fatalf("expected unsent text preserved, got %q", got)
	}
	msgs := d.State().Snapshot().Messages
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one log entry, got %d", len(msgs))
	}
	if msgs[0].Text != "error while sending message to connection handler: worker gone" {
		t.Fatalf("unexpected error text %q", msgs[0].Text)
	}
}

func TestEnterWithoutOutboxReportsError(t *testing.T) {
	out := &command.Outbound{Kind: command.KindChat, Body: "x"}
	d := NewDispatcher(NewState(), []byte("alice"), stubParse(parseResult{out: out}, nil), nil, nil)
	typeString(d, "x")
	d.Handle(Press(KeyEnter))
	if d.State().MessageCount() != 1 || d.State().Input().String() != "x" {
		t.Fatalf("expected one error entry and preserved buffer, got %#v", d.State().Snapshot())
	}
}

func TestEnterNothingToSendClearsBuffer(t *testing.T) {
	outbox := &fakeOutbox{}
	d, _ := newTestDispatcher(stubParse(parseResult{}, nil), outbox)
	typeString(d, "   ")
	d.Handle(Press(KeyEnter))
	if got := d.State().Input().String(); got != "" {
		t.Fatalf("expected buffer cleared when nothing to send, got %q", got)
	}
	if d.State().MessageCount() != 0 || len(outbox.sent) != 0 {
		t.Fatalf("expected no log entries and no sends")
	}
}

func TestNotificationOnlyTouchesLog(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "half-typed")
	entry := message.WithColor("bob: hi", message.Green, message.Reset)
	if outcome := d.Handle(Notification{Entry: entry}); outcome != Continue {
		t.Fatalf("notification should continue the loop")
	}
	view := d.State().Snapshot()
	if view.Input != "half-typed" {
		t.Fatalf("notification mutated input: %q", view.Input)
	}
	if diff := cmp.Diff([]message.Entry{entry}, view.Messages); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestNotificationsNeverTouchInput(t *testing.T) {
	entry := message.New("<bob> hi")
	for _, seq := range inputSequences {
		d, _ := newTestDispatcher(nil, &fakeOutbox{})
		notify := func() {
			before := d.State().Input().String()
			d.Handle(Notification{Entry: entry})
			if after := d.State().Input().String(); after != before {
				t.Fatalf("typing %q: notification changed input from %q to %q", seq, before, after)
			}
		}
		notify()
		typed := 0
		for _, r := range seq {
			d.Handle(Char(r))
			typed++
			notify()
		}
		if got := d.State().Input().String(); got != seq {
			t.Fatalf("expected buffer %q, got %q", seq, got)
		}
		if got := d.State().MessageCount(); got != typed+1 {
			t.Fatalf("typing %q: expected %d log entries, got %d", seq, typed+1, got)
		}
	}
}

func TestInterruptEmitsQuitAndStops(t *testing.T) {
	d, inj := newTestDispatcher(nil, &fakeOutbox{})
	typeString(d, "pending text")
	if outcome := d.Handle(Interrupt{}); outcome != Stop {
		t.Fatalf("expected Stop on interrupt")
	}
	if diff := cmp.Diff([]Event{Quit{}}, inj.events); diff != "" {
		t.Fatalf("injected events mismatch (-want +got):\n%s", diff)
	}
}

func TestInterruptStopsEvenIfInjectionFails(t *testing.T) {
	d, inj := newTestDispatcher(nil, &fakeOutbox{})
	inj.err = errors.New("closed")
	if outcome := d.Handle(Interrupt{}); outcome != Stop {
		t.Fatalf("expected Stop on interrupt")
	}
}

func TestQuitStops(t *testing.T) {
	d, _ := newTestDispatcher(nil, &fakeOutbox{})
	if outcome := d.Handle(Quit{}); outcome != Stop {
		t.Fatalf("expected Stop on quit")
	}
}

func TestIdentityIsCopied(t *testing.T) {
	id := []byte("alice")
	var calls []string
	d := NewDispatcher(NewState(), id, stubParse(parseResult{}, &calls), &fakeOutbox{}, nil)
	id[0] = 'X'
	d.Handle(Press(KeyEnter))
	if diff := cmp.Diff([]string{"|alice"}, calls); diff != "" {
		t.Fatalf("identity changed after construction (-want +got):\n%s", diff)
	}
}
