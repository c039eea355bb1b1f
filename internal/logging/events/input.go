package events

import "github.com/atomicstack/termchat/internal/logging"

type InputTracer struct{}

type SubmitTracer struct{}

type LogTracer struct{}

var (
	Input  = InputTracer{}
	Submit = SubmitTracer{}
	Log    = LogTracer{}
)

func (InputTracer) Append(buffer string) {
	logging.Trace("input.append", map[string]interface{}{"buffer": buffer})
}

func (InputTracer) Backspace(buffer string) {
	logging.Trace("input.backspace", map[string]interface{}{"buffer": buffer})
}

func (InputTracer) Cleared() {
	logging.Trace("input.clear", nil)
}

func (InputTracer) Interrupt(pending int) {
	logging.Trace("input.interrupt", map[string]interface{}{"pending": pending})
}

func (InputTracer) InjectFailed(err error) {
	if err == nil {
		return
	}
	logging.Trace("input.inject-failed", map[string]interface{}{"error": err.Error()})
}

func (SubmitTracer) Sent(kind, target string) {
	logging.Trace("submit.sent", map[string]interface{}{"kind": kind, "target": target})
}

func (SubmitTracer) Consumed(line string) {
	logging.Trace("submit.consumed", map[string]interface{}{"line": line})
}

func (SubmitTracer) ParseError(line string, err error) {
	logging.Trace("submit.parse-error", map[string]interface{}{"line": line, "error": err.Error()})
}

// SendError is also written to the error log: a closed worker channel means
// the session is degraded.
func (SubmitTracer) SendError(kind string, err error) {
	logging.Error(err)
	logging.Trace("submit.send-error", map[string]interface{}{"kind": kind, "error": err.Error()})
}

func (LogTracer) Append(text string, size int) {
	logging.Trace("log.append", map[string]interface{}{"text": text, "size": size})
}
