package connection

import (
	"fmt"
	"time"

	"github.com/atomicstack/termchat/internal/command"
	"github.com/atomicstack/termchat/internal/message"
	"github.com/google/uuid"
)

// Frame is the JSON document exchanged with the chat server.
type Frame struct {
	ID   string     `json:"id,omitempty"`
	Type string     `json:"type"`
	From string     `json:"from,omitempty"`
	To   string     `json:"to,omitempty"`
	Body string     `json:"body,omitempty"`
	Time *time.Time `json:"time,omitempty"`
}

// Inbound frame types beyond the outbound command kinds.
const (
	TypeSystem = "system"
	TypeError  = "error"
)

func frameFromOutbound(out command.Outbound, now time.Time) Frame {
	ts := now.UTC()
	return Frame{
		ID:   uuid.NewString(),
		Type: string(out.Kind),
		From: out.From,
		To:   out.Target,
		Body: out.Body,
		Time: &ts,
	}
}

// Entry formats an inbound frame for the message log.
func (f Frame) Entry() message.Entry {
	prefix := ""
	if f.Time != nil && !f.Time.IsZero() {
		prefix = f.Time.Local().Format("15:04") + " "
	}
	room := ""
	if f.To != "" {
		room = fmt.Sprintf("[%s] ", f.To)
	}
	switch f.Type {
	case string(command.KindChat):
		return message.New(fmt.Sprintf("%s%s<%s> %s", prefix, room, f.From, f.Body))
	case string(command.KindDirect):
		return message.WithForeground(fmt.Sprintf("%s*%s* %s", prefix, f.From, f.Body), message.Magenta)
	case string(command.KindAction):
		return message.WithForeground(fmt.Sprintf("%s%s* %s %s", prefix, room, f.From, f.Body), message.Cyan)
	case string(command.KindJoin):
		return message.WithForeground(fmt.Sprintf("%s--> %s joined %s", prefix, f.From, f.To), message.Green)
	case string(command.KindPart):
		return message.WithForeground(fmt.Sprintf("%s<-- %s left %s", prefix, f.From, f.To), message.Yellow)
	case TypeSystem:
		return message.WithForeground(prefix+f.Body, message.BrightBlack)
	case TypeError:
		return message.WithForeground(fmt.Sprintf("%sserver: %s", prefix, f.Body), message.Red)
	default:
		return message.New(fmt.Sprintf("%s[%s] %s", prefix, f.Type, f.Body))
	}
}
