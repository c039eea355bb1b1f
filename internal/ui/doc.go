// Package ui contains the Bubble Tea program that renders the chat client.
// The Model is a thin bridge: it owns no chat state itself and forwards
// everything to a chat.Dispatcher.
//
// Message flow:
//   - Bubble Tea reads the keyboard and invokes Model.Update with key
//     messages; translateKey (internal/ui/input.go) maps them to chat events.
//   - Events injected from other goroutines (the connection worker, the
//     dispatcher reporting an interrupt) sit in an eventsource.Source.
//     waitForEvent pulls one at a time and hands it to Update as an eventMsg;
//     the handler re-arms the wait after each delivery.
//   - Both kinds of message share Bubble Tea's single message queue, so the
//     dispatcher sees events strictly one at a time in arrival order.
//
// State ownership:
//   - The input buffer and message log live in chat.State and are only
//     mutated by the dispatcher, inside Update.
//   - The log viewport (bubbles/viewport) and caret (bubbles/cursor) are
//     presentation state; scrolling never reaches the dispatcher.
//
// Termination:
//   - A Stop outcome from the dispatcher (interrupt or quit) returns tea.Quit.
//   - A closed event source is fatal and is reported through Model.Err.
package ui
