package message

import "github.com/charmbracelet/lipgloss"

// Color is a terminal colour understood by lipgloss: an ANSI index ("1",
// "196") or a hex value ("#ff8800"). Reset inherits the terminal default.
type Color string

// Reset is the inherit/reset sentinel used when no colour is given.
const Reset Color = ""

const (
	Black         Color = "0"
	Red           Color = "1"
	Green         Color = "2"
	Yellow        Color = "3"
	Blue          Color = "4"
	Magenta       Color = "5"
	Cyan          Color = "6"
	White         Color = "7"
	BrightBlack   Color = "8"
	BrightRed     Color = "9"
	BrightGreen   Color = "10"
	BrightYellow  Color = "11"
	BrightBlue    Color = "12"
	BrightMagenta Color = "13"
	BrightCyan    Color = "14"
	BrightWhite   Color = "15"
)

// IsReset reports whether c is the reset sentinel.
func (c Color) IsReset() bool {
	return c == Reset
}

// Terminal converts the colour to the lipgloss representation.
func (c Color) Terminal() lipgloss.TerminalColor {
	if c.IsReset() {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(string(c))
}

// Entry is a single line of the message log.
type Entry struct {
	Text       string `json:"text" yaml:"text"`
	Foreground Color  `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background Color  `json:"background,omitempty" yaml:"background,omitempty"`
}

// New returns an entry using the terminal's default colours.
func New(text string) Entry {
	return Entry{Text: text}
}

func WithForeground(text string, fg Color) Entry {
	return Entry{Text: text, Foreground: fg}
}

func WithBackground(text string, bg Color) Entry {
	return Entry{Text: text, Background: bg}
}

func WithColor(text string, fg, bg Color) Entry {
	return Entry{Text: text, Foreground: fg, Background: bg}
}
