package command

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MaxBodyLen caps the number of runes a single outbound body may carry.
const MaxBodyLen = 2000

// Kind identifies the type of an outbound message.
type Kind string

const (
	KindChat   Kind = "chat"
	KindDirect Kind = "direct"
	KindAction Kind = "action"
	KindJoin   Kind = "join"
	KindPart   Kind = "part"
	KindQuit   Kind = "quit"
)

// Outbound is a message destined for the connection worker.
type Outbound struct {
	Kind   Kind
	From   string
	Target string
	Body   string
}

// ParseError reports a malformed or unrecognised command line.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

type handler func(from, args string) (*Outbound, error)

type spec struct {
	usage   string
	handler handler
}

var commands = map[string]spec{
	"msg":   {usage: "/msg <nick> <message>", handler: parseDirect},
	"w":     {usage: "/w <nick> <message>", handler: parseDirect},
	"me":    {usage: "/me <action>", handler: parseAction},
	"join":  {usage: "/join <room>", handler: parseJoin},
	"part":  {usage: "/part [room]", handler: parsePart},
	"leave": {usage: "/leave [room]", handler: parsePart},
	"quit":  {usage: "/quit [reason]", handler: parseQuit},
}

// Names lists the recognised command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse interprets a submitted input line for identity. It returns
// (nil, nil) when the line produces nothing to send.
func Parse(input string, identity []byte) (*Outbound, error) {
	line := strings.TrimRight(input, " \t\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	if len(identity) == 0 {
		return nil, &ParseError{Input: input, Message: "no identity set"}
	}
	from := string(identity)

	if !strings.HasPrefix(line, "/") {
		return chat(input, from, line)
	}
	if strings.HasPrefix(line, "//") {
		return chat(input, from, line[1:])
	}

	name, args, _ := strings.Cut(line[1:], " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)
	cmd, ok := commands[name]
	if !ok {
		return nil, unknownCommand(input, name)
	}
	out, err := cmd.handler(from, args)
	if err != nil {
		return nil, &ParseError{Input: input, Message: fmt.Sprintf("%v, usage: %s", err, cmd.usage)}
	}
	if utf8.RuneCountInString(out.Body) > MaxBodyLen {
		return nil, tooLong(input)
	}
	return out, nil
}

func chat(input, from, body string) (*Outbound, error) {
	if utf8.RuneCountInString(body) > MaxBodyLen {
		return nil, tooLong(input)
	}
	return &Outbound{Kind: KindChat, From: from, Body: body}, nil
}

func tooLong(input string) error {
	return &ParseError{Input: input, Message: fmt.Sprintf("message too long (max %d characters)", MaxBodyLen)}
}

func unknownCommand(input, name string) error {
	msg := fmt.Sprintf("unknown command /%s", name)
	if suggestion := suggest(name); suggestion != "" {
		msg = fmt.Sprintf("%s, did you mean /%s?", msg, suggestion)
	}
	return &ParseError{Input: input, Message: msg}
}

// suggest returns the closest known command name, or "" when nothing is
// close enough.
func suggest(name string) string {
	if name == "" {
		return ""
	}
	names := Names()
	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) == 0 {
		for _, candidate := range names {
			if d := fuzzy.LevenshteinDistance(name, candidate); d <= 2 {
				ranks = append(ranks, fuzzy.Rank{Source: name, Target: candidate, Distance: d})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

func parseDirect(from, args string) (*Outbound, error) {
	nick, body, _ := strings.Cut(args, " ")
	body = strings.TrimSpace(body)
	if nick == "" || body == "" {
		return nil, fmt.Errorf("missing recipient or message")
	}
	return &Outbound{Kind: KindDirect, From: from, Target: nick, Body: body}, nil
}

func parseAction(from, args string) (*Outbound, error) {
	if args == "" {
		return nil, fmt.Errorf("missing action")
	}
	return &Outbound{Kind: KindAction, From: from, Body: args}, nil
}

func parseJoin(from, args string) (*Outbound, error) {
	if args == "" || strings.ContainsAny(args, " \t") {
		return nil, fmt.Errorf("expected a single room name")
	}
	return &Outbound{Kind: KindJoin, From: from, Target: roomName(args)}, nil
}

func parsePart(from, args string) (*Outbound, error) {
	if strings.ContainsAny(args, " \t") {
		return nil, fmt.Errorf("expected at most one room name")
	}
	target := ""
	if args != "" {
		target = roomName(args)
	}
	return &Outbound{Kind: KindPart, From: from, Target: target}, nil
}

func parseQuit(from, args string) (*Outbound, error) {
	return &Outbound{Kind: KindQuit, From: from, Body: args}, nil
}

func roomName(name string) string {
	if strings.HasPrefix(name, "#") {
		return name
	}
	return "#" + name
}
