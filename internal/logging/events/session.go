package events

import "github.com/atomicstack/termchat/internal/logging"

type AppTracer struct{}

type ConnTracer struct{}

type SourceTracer struct{}

var (
	App    = AppTracer{}
	Conn   = ConnTracer{}
	Source = SourceTracer{}
)

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Exit(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.exit", payload)
}

func (ConnTracer) Dial(url, identity string) {
	logging.Trace("conn.dial", map[string]interface{}{"url": url, "identity": identity})
}

func (ConnTracer) Write(id, kind string) {
	logging.Trace("conn.write", map[string]interface{}{"id": id, "kind": kind})
}

func (ConnTracer) Read(id, kind string) {
	logging.Trace("conn.read", map[string]interface{}{"id": id, "kind": kind})
}

func (ConnTracer) Closed(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("conn.closed", payload)
}

func (SourceTracer) Closed() {
	logging.Trace("source.closed", nil)
}
