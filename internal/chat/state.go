package chat

import "github.com/atomicstack/termchat/internal/message"

// InputBuffer holds the characters typed since the last submit or clear.
type InputBuffer struct {
	runes []rune
}

func (b *InputBuffer) Append(r rune) {
	b.runes = append(b.runes, r)
}

// Backspace removes the last rune. It reports false when the buffer was
// already empty.
func (b *InputBuffer) Backspace() bool {
	if len(b.runes) == 0 {
		return false
	}
	b.runes = b.runes[:len(b.runes)-1]
	return true
}

func (b *InputBuffer) Clear() {
	b.runes = b.runes[:0]
}

func (b *InputBuffer) Len() int {
	return len(b.runes)
}

func (b *InputBuffer) String() string {
	return string(b.runes)
}

// View is the read-only snapshot handed to the renderer.
type View struct {
	Input    string
	Messages []message.Entry
}

// State is the UI state mutated by the Dispatcher.
type State struct {
	input InputBuffer
	log   *message.Log
}

// NewState returns an empty input buffer and message log.
func NewState() *State {
	return &State{log: message.NewLog()}
}

// Input exposes the buffer for mutation by the dispatcher.
func (s *State) Input() *InputBuffer {
	return &s.input
}

func (s *State) AppendMessage(entry message.Entry) {
	s.log.Append(entry)
}

// MessageCount returns the number of log entries.
func (s *State) MessageCount() int {
	return s.log.Len()
}

// Snapshot copies the current state for rendering.
func (s *State) Snapshot() View {
	return View{
		Input:    s.input.String(),
		Messages: s.log.Entries(),
	}
}
