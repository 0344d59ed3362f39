package orchestrator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

func newExecTestSession(policy types.ApprovalPolicy) (*session, chan types.Event) {
	events := make(chan types.Event, 16)
	return &session{
		txEvent:        events,
		ptyMgr:         ptyexec.NewManager(),
		doomLoop:       permission.NewDoomLoopDetector(),
		id:             "sess-1",
		approvalPolicy: policy,
		sandboxPolicy:  types.SandboxPolicy{Kind: types.SandboxPolicyWorkspaceWrite},
		st:             newState(false),
	}, events
}

func TestHandleExecCall_NeverPolicy_RunsWithoutAsking(t *testing.T) {
	sess, events := newExecTestSession(types.ApprovalNever)

	args := `{"command":["echo","hi"]}`
	result := handleExecCall(context.Background(), sess, "sub-1", "call-1", args)

	require.Equal(t, types.ResponseItemFunctionCallOutput, result.Type)
	require.NotNil(t, result.Output)
	var payload struct {
		Output string `json:"output"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Output.Content), &payload))
	assert.Contains(t, payload.Output, "hi")

	// exec_command_begin and exec_command_end must both have been sent.
	ev1 := <-events
	assert.Equal(t, types.MsgExecCommandBegin, ev1.Msg.Type)
	ev2 := <-events
	assert.Equal(t, types.MsgExecCommandEnd, ev2.Msg.Type)
}

func TestHandleExecCall_OnRequest_DangerousCommandAsksThenApproves(t *testing.T) {
	sess, events := newExecTestSession(types.ApprovalOnRequest)

	resultCh := make(chan types.ResponseItem, 1)
	go func() {
		resultCh <- handleExecCall(context.Background(), sess, "sub-1", "call-1", `{"command":["rm","-rf","/tmp/whatever"]}`)
	}()

	var req *types.ExecApprovalRequestMsg
	for ev := range events {
		if ev.Msg.Type == types.MsgExecApprovalRequest {
			req = ev.Msg.ExecApprovalRequest
			break
		}
	}
	require.NotNil(t, req)

	sess.notifyApproval("sub-1", types.DecisionApproved)

	select {
	case result := <-resultCh:
		require.Equal(t, types.ResponseItemFunctionCallOutput, result.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("handleExecCall did not return after approval")
	}
}

func TestHandleExecCall_RejectedByUser(t *testing.T) {
	sess, events := newExecTestSession(types.ApprovalOnRequest)
	go func() {
		for ev := range events {
			if ev.Msg.Type == types.MsgExecApprovalRequest {
				sess.notifyApproval("sub-1", types.DecisionDenied)
				return
			}
		}
	}()

	result := handleExecCall(context.Background(), sess, "sub-1", "call-1", `{"command":["rm","-rf","/tmp/whatever"]}`)
	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "rejected by user")
}

func TestHandleExecCall_AbortedWhileWaitingForApproval(t *testing.T) {
	sess, _ := newExecTestSession(types.ApprovalOnRequest)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := handleExecCall(ctx, sess, "sub-1", "call-1", `{"command":["rm","-rf","/tmp/whatever"]}`)
	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "aborted")
}

func TestHandleExecCall_DoomLoop_EscalatesRepeatedCommand(t *testing.T) {
	sess, events := newExecTestSession(types.ApprovalNever)
	// ApprovalNever auto-approves unconditionally in the assessor itself,
	// so feed the detector directly to exercise the escalation branch in
	// isolation from the policy that would otherwise never ask.
	for i := 0; i < permission.DoomLoopThreshold-1; i++ {
		sess.doomLoop.Check(sess.id, "shell", []string{"echo", "loop"})
	}

	go func() {
		handleExecCall(context.Background(), sess, "sub-1", "call-1", `{"command":["echo","loop"]}`)
	}()

	var sawApprovalRequest bool
	deadline := time.After(2 * time.Second)
	for !sawApprovalRequest {
		select {
		case ev := <-events:
			if ev.Msg.Type == types.MsgExecApprovalRequest {
				sawApprovalRequest = true
			}
		case <-deadline:
			t.Fatal("expected escalation to ask the user after repeated identical commands")
		}
	}
	sess.notifyApproval("sub-1", types.DecisionDenied)
}

func TestQuoteArgv_EscapesSingleQuotes(t *testing.T) {
	got := quoteArgv([]string{"echo", "it's"})
	assert.Equal(t, `'echo' 'it'\''s'`, got)
}

func TestFormatExecOutput_RoundsDurationToOneDecimal(t *testing.T) {
	out := formatExecOutput("hello", 0, 1234*time.Millisecond)
	var payload struct {
		Metadata struct {
			ExitCode        int     `json:"exit_code"`
			DurationSeconds float64 `json:"duration_seconds"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 0, payload.Metadata.ExitCode)
	assert.Equal(t, 1.2, payload.Metadata.DurationSeconds)
}
