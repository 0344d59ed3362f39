package orchestrator

import (
	"context"

	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

// runSubmissionLoop is the whole orchestrator in one function: it owns the
// single active session (if any) and dispatches every inbound Submission
// to it, replacing the session outright on ConfigureSession and carrying
// forward whatever of its state should survive the swap. It returns once
// ctx is canceled or rxSub is closed.
func runSubmissionLoop(
	ctx context.Context,
	rxSub <-chan types.Submission,
	txEvent chan<- types.Event,
	ptyMgr *ptyexec.Manager,
	doomLoop *permission.DoomLoopDetector,
	cfg types.Config,
	newClient func(types.Config, types.ConfigureSessionOp) *modelclient.ModelClient,
) {
	var sess *session

	for {
		select {
		case <-ctx.Done():
			if sess != nil {
				sess.abort()
				sess.stopWatchingRoots()
			}
			return

		case sub, ok := <-rxSub:
			if !ok {
				if sess != nil {
					sess.abort()
					sess.stopWatchingRoots()
				}
				return
			}

			switch sub.Op.Type {
			case types.OpConfigureSession:
				sess = configureSession(ctx, sess, txEvent, ptyMgr, doomLoop, cfg, newClient, sub)

			case types.OpUserInput:
				if sess == nil {
					sendNoSession(txEvent, sub.ID)
					continue
				}
				handleUserInput(ctx, sess, sub)

			case types.OpExecApproval:
				if sess == nil || sub.Op.ExecApproval == nil {
					continue
				}
				handleApprovalDecision(sess, sub.Op.ExecApproval.ID, sub.Op.ExecApproval.Decision)

			case types.OpPatchApproval:
				if sess == nil || sub.Op.PatchApproval == nil {
					continue
				}
				handleApprovalDecision(sess, sub.Op.PatchApproval.ID, sub.Op.PatchApproval.Decision)

			case types.OpInterrupt:
				if sess != nil {
					sess.abort()
				}

			case types.OpShutdown:
				if sess != nil {
					sess.abort()
					sess.stopWatchingRoots()
				}
				txEvent <- types.NewEvent(sub.ID, types.Msg{Type: types.MsgShutdownComplete})
				return
			}
		}
	}
}

// configureSession replaces prev with a freshly built session, carrying
// over the partial state a ConfigureSession should survive across (approved
// commands, previous_response_id, the ZDR transcript) and aborting prev's
// running task in the process.
func configureSession(
	ctx context.Context,
	prev *session,
	txEvent chan<- types.Event,
	ptyMgr *ptyexec.Manager,
	doomLoop *permission.DoomLoopDetector,
	cfg types.Config,
	newClient func(types.Config, types.ConfigureSessionOp) *modelclient.ModelClient,
	sub types.Submission,
) *session {
	op := sub.Op.ConfigureSession

	var carried *state
	if prev != nil {
		prev.mu.Lock()
		carried = prev.st.partialClone()
		prev.mu.Unlock()
		prev.abort()
		prev.stopWatchingRoots()
	}

	client := newClient(cfg, *op)
	next := newSession(sub.ID, client, ptyMgr, doomLoop, txEvent, *op, carried)

	txEvent <- types.NewEvent(sub.ID, types.Msg{
		Type:              types.MsgSessionConfigured,
		SessionConfigured: &types.SessionConfiguredMsg{Model: op.Model},
	})
	return next
}

// handleUserInput feeds items into the session's running task if one
// exists, or starts a fresh one otherwise — mirroring codex.rs's
// Op::UserInput handling, which distinguishes "inject into the current
// turn" from "this is the start of a new turn" purely by whether a task is
// already running.
func handleUserInput(ctx context.Context, sess *session, sub types.Submission) {
	item := userInputToResponseItem(sub.Op.UserInput.Items)
	if sess.injectInput([]types.ResponseItem{item}) {
		return
	}
	task := spawnTask(ctx, sess, sub.ID, []types.ResponseItem{item})
	sess.setTask(task)
}

func handleApprovalDecision(sess *session, requestID string, decision types.ApprovalDecision) {
	if decision == types.DecisionAbort {
		sess.abort()
		return
	}
	sess.notifyApproval(requestID, decision)
}

func sendNoSession(txEvent chan<- types.Event, subID string) {
	txEvent <- types.NewEvent(subID, types.Msg{
		Type:  types.MsgError,
		Error: &types.ErrorMsg{Text: "no session configured yet"},
	})
}
