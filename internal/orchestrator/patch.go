package orchestrator

import (
	"context"
	"fmt"

	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/patch"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/pkg/types"
)

// applyPatch resolves a detected apply_patch body into a Plan, runs it
// through the writable-roots safety check (asking the user to extend
// access or approve outright when needed), and only then writes the
// change to disk. A plan that fails to parse is returned to the model as
// an ordinary tool failure so it can resample instead of aborting the
// turn.
func applyPatch(ctx context.Context, sess *session, subID, callID, body string) types.ResponseItem {
	plan, err := patch.BuildPlan(body)
	if err != nil {
		return failureOutput(callID, fmt.Sprintf("error: %v", err), nil)
	}
	paths := plan.Paths()

	autoApproved, rejected := assessPatchSafety(sess, paths)
	if rejected != "" {
		logging.Warn().Str("call_id", callID).Str("reason", rejected).Msg("patch rejected by policy")
		return failureOutput(callID, rejected, boolPtr(false))
	}
	if !autoApproved {
		decision, aborted := awaitPatchDecision(ctx, sess.requestPatchApproval(subID, callID, paths, "", nil))
		if aborted {
			return failureOutput(callID, "patch apply aborted", boolPtr(false))
		}
		switch decision {
		case types.DecisionApproved, types.DecisionApprovedForSession:
		default:
			return failureOutput(callID, "patch rejected by user", boolPtr(false))
		}
	}

	// Even once the patch itself is approved, a path may still fall
	// outside the session's writable roots entirely (as opposed to merely
	// needing approval under the current policy); that requires a
	// separate, explicit grant before any bytes are written.
	roots := sess.writableRoots()
	if offending, grantRoot, ok := firstOffendingPath(paths, roots); ok {
		reason := fmt.Sprintf("grant write access to %s for this session", grantRoot)
		decision, aborted := awaitPatchDecision(ctx, sess.requestPatchApproval(subID, callID, paths, reason, []string{grantRoot}))
		if aborted {
			return failureOutput(callID, "patch apply aborted", boolPtr(false))
		}
		switch decision {
		case types.DecisionApproved, types.DecisionApprovedForSession:
			sess.grantWritableRoot(grantRoot)
		default:
			return failureOutput(callID, "patch rejected by user", boolPtr(false))
		}
		_ = offending
	}

	sess.send(types.NewEvent(subID, types.Msg{
		Type:            types.MsgPatchApplyBegin,
		PatchApplyBegin: &types.PatchApplyBeginMsg{CallID: callID, Paths: paths},
	}))

	applyErr := patch.Apply(plan)
	success := applyErr == nil

	var stdout, stderr string
	if success {
		stdout = summarizeChanges(plan)
		logging.Debug().Str("call_id", callID).Strs("paths", paths).Msg("patch applied")
	} else {
		stderr = applyErr.Error()
		logging.Warn().Str("call_id", callID).Err(applyErr).Msg("patch apply failed")
	}

	sess.send(types.NewEvent(subID, types.Msg{
		Type:          types.MsgPatchApplyEnd,
		PatchApplyEnd: &types.PatchApplyEndMsg{CallID: callID, Success: success, Stdout: stdout, Stderr: stderr},
	}))

	if !success {
		return failureOutput(callID, fmt.Sprintf("error: %s", stderr), boolPtr(false))
	}
	return types.NewFunctionCallOutput(callID, types.FunctionCallOutputPayload{Content: stdout})
}

// assessPatchSafety folds the session's approval policy together with the
// writable-roots check: a "never ask" policy auto-approves unconditionally
// (matching handleExecCall's equivalent branch), everything else defers to
// internal/permission's writable-roots assessment.
func assessPatchSafety(sess *session, paths []string) (autoApproved bool, rejected string) {
	if sess.ApprovalPolicy() == types.ApprovalNever {
		return true, ""
	}
	outcome := permission.AssessPatchPaths(paths, sess.writableRoots())
	switch outcome.Kind {
	case types.AssessmentAutoApprove:
		return true, ""
	case types.AssessmentReject:
		return false, fmt.Sprintf("patch rejected: %s", outcome.Reason)
	default:
		return false, ""
	}
}

func summarizeChanges(plan patch.Plan) string {
	var added, modified, deleted int
	for _, c := range plan.Changes {
		switch c.Kind {
		case types.HunkAddFile:
			added++
		case types.HunkDeleteFile:
			deleted++
		case types.HunkUpdateFile:
			modified++
		}
	}
	return fmt.Sprintf("Success. Updated the following files:\nA %d files added\nM %d files modified\nD %d files deleted", added, modified, deleted)
}

func boolPtr(b bool) *bool { return &b }

// awaitPatchDecision waits for a patch approval decision, unblocking early
// if ctx is canceled (a session replacement or Interrupt) before the user
// ever responds.
func awaitPatchDecision(ctx context.Context, ch <-chan types.ApprovalDecision) (decision types.ApprovalDecision, aborted bool) {
	select {
	case decision = <-ch:
		return decision, false
	case <-ctx.Done():
		return "", true
	}
}
