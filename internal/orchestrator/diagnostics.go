package orchestrator

import (
	"fmt"
	"sync"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/pkg/types"
)

// diagnosticsSink forwards internal/event diagnostics into a session's
// outbound event channel as BackgroundEvent notifications. Its mutex
// serializes sends against stop, so a subscriber callback firing after the
// session has shut down never sends on a closed channel: event.Publish runs
// each subscriber in its own goroutine, with no ordering guarantee relative
// to the session's own teardown.
type diagnosticsSink struct {
	mu     sync.Mutex
	ch     chan<- types.Event
	closed bool
}

func (d *diagnosticsSink) send(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.ch <- types.NewEvent("", types.Msg{Type: types.MsgBackgroundEvent, BackgroundEvent: &types.BackgroundEventMsg{Text: text}}):
	default:
	}
}

func (d *diagnosticsSink) stop() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// subscribeDiagnostics gives internal/event's bus a real consumer: the
// permission and doom-loop diagnostics it already publishes, plus file-edit
// notifications from the patch engine, are forwarded onto ch as
// BackgroundEvent messages instead of going nowhere. The returned func
// unsubscribes and stops further sends; callers must invoke it exactly once
// before ch is closed.
func subscribeDiagnostics(ch chan<- types.Event) func() {
	sink := &diagnosticsSink{ch: ch}

	unsubs := []func(){
		event.Subscribe(event.PermissionRequired, func(e event.Event) {
			d := e.Data.(event.PermissionRequiredData)
			sink.send(fmt.Sprintf("awaiting approval for %s (call %s)", d.Kind, d.CallID))
		}),
		event.Subscribe(event.PermissionResolved, func(e event.Event) {
			d := e.Data.(event.PermissionResolvedData)
			sink.send(fmt.Sprintf("approval %s resolved: %s", d.RequestID, d.Decision))
		}),
		event.Subscribe(event.DoomLoopDetected, func(e event.Event) {
			d := e.Data.(event.DoomLoopDetectedData)
			sink.send(fmt.Sprintf("doom loop detected: session %s repeated %s", d.SessionID, d.ToolName))
		}),
		event.Subscribe(event.FileEdited, func(e event.Event) {
			d := e.Data.(event.FileEditedData)
			sink.send(fmt.Sprintf("file edited: %s", d.Path))
		}),
	}

	return func() {
		for _, unsub := range unsubs {
			unsub()
		}
		sink.stop()
	}
}
