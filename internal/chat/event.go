package chat

import "github.com/atomicstack/termchat/internal/message"

// Event is a discrete occurrence handled by the Dispatcher.
type Event interface {
	isEvent()
}

// Key classifies a key press.
type Key int

const (
	KeyOther Key = iota
	KeyRune
	KeyBackspace
	KeyEnter
	KeyClear
)

func (k Key) String() string {
	switch k {
	case KeyRune:
		return "rune"
	case KeyBackspace:
		return "backspace"
	case KeyEnter:
		return "enter"
	case KeyClear:
		return "clear"
	default:
		return "other"
	}
}

// KeyPress is a single key. Rune is only meaningful for KeyRune.
type KeyPress struct {
	Key  Key
	Rune rune
}

// Interrupt requests shutdown (ctrl+c).
type Interrupt struct{}

// Notification carries a pre-formatted line for the message log.
type Notification struct {
	Entry message.Entry
}

// Quit ends the loop.
type Quit struct{}

func (KeyPress) isEvent()     {}
func (Interrupt) isEvent()    {}
func (Notification) isEvent() {}
func (Quit) isEvent()         {}

// Char is shorthand for a rune key press.
func Char(r rune) KeyPress {
	return KeyPress{Key: KeyRune, Rune: r}
}

// Press is shorthand for a non-rune key press.
func Press(k Key) KeyPress {
	return KeyPress{Key: k}
}
