package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

func stubNewClient(types.Config, types.ConfigureSessionOp) *modelclient.ModelClient {
	return modelclient.NewClient("test-model", "test", types.ProviderConfig{}, types.Config{}, "")
}

func TestConfigureSession_FirstCallHasNoCarriedState(t *testing.T) {
	events := make(chan types.Event, 4)
	sub := types.NewConfigureSession(types.ConfigureSessionOp{Model: "m1", ApprovalPolicy: types.ApprovalOnRequest})

	sess := configureSession(context.Background(), nil, events, ptyexec.NewManager(), permission.NewDoomLoopDetector(), types.Config{}, stubNewClient, sub)

	require.NotNil(t, sess)
	ev := <-events
	assert.Equal(t, types.MsgSessionConfigured, ev.Msg.Type)
	assert.Equal(t, "m1", ev.Msg.SessionConfigured.Model)
}

func TestConfigureSession_CarriesApprovedCommandsAcrossReplacement(t *testing.T) {
	events := make(chan types.Event, 8)
	ptyMgr := ptyexec.NewManager()
	doomLoop := permission.NewDoomLoopDetector()

	first := configureSession(context.Background(), nil, events, ptyMgr, doomLoop, types.Config{}, stubNewClient,
		types.NewConfigureSession(types.ConfigureSessionOp{Model: "m1"}))
	<-events // session_configured

	first.addApprovedCommand([]string{"ls", "-la"})
	first.setPreviousResponseID("resp-1")

	second := configureSession(context.Background(), first, events, ptyMgr, doomLoop, types.Config{}, stubNewClient,
		types.NewConfigureSession(types.ConfigureSessionOp{Model: "m2"}))
	<-events // session_configured

	assert.True(t, second.IsCommandApproved([]string{"ls", "-la"}))
	id, ok := second.previousResponseID()
	assert.True(t, ok)
	assert.Equal(t, "resp-1", id)
}

func TestHandleUserInput_InjectsIntoRunningTask(t *testing.T) {
	sess, _ := newTestSession()
	task := &agentTask{sess: sess, subID: "running", cancel: func() {}}
	sess.setTask(task)

	sub := types.NewUserInput([]types.InputItem{types.TextInput{Text: "more context"}})
	handleUserInput(context.Background(), sess, sub)

	sess.mu.Lock()
	pending := sess.st.pendingInput
	sess.mu.Unlock()
	require.Len(t, pending, 1)
	assert.Equal(t, "more context", pending[0].Content[0].Text)
}

func TestHandleApprovalDecision_AbortStopsTask(t *testing.T) {
	sess, events := newTestSession()
	task := &agentTask{sess: sess, subID: "running", cancel: func() {}}
	sess.setTask(task)

	handleApprovalDecision(sess, "req-1", types.DecisionAbort)

	select {
	case ev := <-events:
		assert.Equal(t, types.MsgError, ev.Msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected Turn interrupted after an Abort decision")
	}
}

func TestHandleApprovalDecision_ForwardsNonAbortToPendingApprovals(t *testing.T) {
	sess, _ := newTestSession()
	ch := sess.st.pendingApprovals.Register(sess.id, "req-1", types.MsgExecApprovalRequest, "call-1")

	handleApprovalDecision(sess, "req-1", types.DecisionApproved)

	select {
	case decision := <-ch:
		assert.Equal(t, types.DecisionApproved, decision)
	case <-time.After(time.Second):
		t.Fatal("expected the decision to reach the registered channel")
	}
}

func TestSendNoSession_EmitsError(t *testing.T) {
	events := make(chan types.Event, 1)
	sendNoSession(events, "sub-1")
	ev := <-events
	assert.Equal(t, types.MsgError, ev.Msg.Type)
	assert.Equal(t, "sub-1", ev.ID)
}

func TestRunSubmissionLoop_NoSessionYetRespondsWithError(t *testing.T) {
	rxSub := make(chan types.Submission, 1)
	txEvent := make(chan types.Event, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runSubmissionLoop(ctx, rxSub, txEvent, ptyexec.NewManager(), permission.NewDoomLoopDetector(), types.Config{}, stubNewClient)

	rxSub <- types.NewUserInput([]types.InputItem{types.TextInput{Text: "hi"}})

	select {
	case ev := <-txEvent:
		assert.Equal(t, types.MsgError, ev.Msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a no-session error event")
	}
}

func TestRunSubmissionLoop_ShutdownEndsTheLoop(t *testing.T) {
	rxSub := make(chan types.Submission, 1)
	txEvent := make(chan types.Event, 4)

	loopDone := make(chan struct{})
	go func() {
		runSubmissionLoop(context.Background(), rxSub, txEvent, ptyexec.NewManager(), permission.NewDoomLoopDetector(), types.Config{}, stubNewClient)
		close(loopDone)
	}()

	rxSub <- types.NewShutdown()

	select {
	case ev := <-txEvent:
		assert.Equal(t, types.MsgShutdownComplete, ev.Msg.Type)
	case <-time.After(time.Second):
		t.Fatal("expected shutdown_complete")
	}

	select {
	case <-loopDone:
	case <-time.After(time.Second):
		t.Fatal("runSubmissionLoop did not return after Shutdown")
	}
}
