package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/pkg/types"
)

func TestSubscribeDiagnostics_ForwardsPermissionRequiredAsBackgroundEvent(t *testing.T) {
	ch := make(chan types.Event, 4)
	unsubscribe := subscribeDiagnostics(ch)
	defer unsubscribe()

	event.Publish(event.Event{
		Type: event.PermissionRequired,
		Data: event.PermissionRequiredData{RequestID: "req1", SessionID: "sess1", Kind: types.MsgExecApprovalRequest, CallID: "call1"},
	})

	select {
	case ev := <-ch:
		require.Equal(t, types.MsgBackgroundEvent, ev.Msg.Type)
		assert.Contains(t, ev.Msg.BackgroundEvent.Text, "call1")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for forwarded diagnostic event")
	}
}

func TestSubscribeDiagnostics_StopAfterUnsubscribeDropsSends(t *testing.T) {
	ch := make(chan types.Event, 1)
	unsubscribe := subscribeDiagnostics(ch)
	unsubscribe()
	close(ch)

	event.Publish(event.Event{
		Type: event.DoomLoopDetected,
		Data: event.DoomLoopDetectedData{SessionID: "sess1", ToolName: "shell"},
	})

	// The subscriber was removed, and even if it somehow fired, the sink is
	// stopped and must not send on the now-closed channel.
	time.Sleep(50 * time.Millisecond)
}
