package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/pkg/types"
)

func newPatchTestSession(policy types.ApprovalPolicy, roots []types.WritableRoot) (*session, chan types.Event) {
	events := make(chan types.Event, 16)
	return &session{
		txEvent:        events,
		id:             "sess-1",
		approvalPolicy: policy,
		sandboxPolicy:  types.SandboxPolicy{Kind: types.SandboxPolicyWorkspaceWrite},
		roots:          roots,
		st:             newState(false),
	}, events
}

func nextApplyPatchRequest(t *testing.T, events chan types.Event) *types.ApplyPatchApprovalRequestMsg {
	t.Helper()
	select {
	case ev := <-events:
		require.Equal(t, types.MsgApplyPatchApprovalRequest, ev.Msg.Type)
		return ev.Msg.ApplyPatchApprovalRequest
	case <-time.After(2 * time.Second):
		t.Fatal("expected an apply_patch approval request")
		return nil
	}
}

func addFilePatch(path, contents string) string {
	return "*** Begin Patch\n*** Add File: " + path + "\n+" + contents + "\n*** End Patch"
}

func TestApplyPatch_WritesFileWithinWritableRoot(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "new.txt")

	sess, _ := newPatchTestSession(types.ApprovalNever, []types.WritableRoot{{Root: dir}})

	result := applyPatch(context.Background(), sess, "sub-1", "call-1", addFilePatch(target, "hello"))

	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "Success")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestApplyPatch_OutsideWritableRootAsksForGrant(t *testing.T) {
	allowedDir := t.TempDir()
	outsideDir := t.TempDir()
	target := filepath.Join(outsideDir, "new.txt")

	sess, events := newPatchTestSession(types.ApprovalUnlessTrusted, []types.WritableRoot{{Root: allowedDir}})

	resultCh := make(chan types.ResponseItem, 1)
	go func() {
		resultCh <- applyPatch(context.Background(), sess, "sub-1", "call-1", addFilePatch(target, "hi"))
	}()

	// The path falls outside the session's only writable root, so
	// AssessPatchPaths itself asks first (the generic patch-approval
	// gate) before the separate, more specific writable-root grant ask.
	genericReq := nextApplyPatchRequest(t, events)
	require.Nil(t, genericReq.GrantRoots)
	sess.notifyApproval("sub-1", types.DecisionApproved)

	grantReq := nextApplyPatchRequest(t, events)
	assert.Equal(t, []string{outsideDir}, grantReq.GrantRoots)
	sess.notifyApproval("sub-1", types.DecisionApproved)

	select {
	case result := <-resultCh:
		require.NotNil(t, result.Output)
		assert.Contains(t, result.Output.Content, "Success")
	case <-time.After(2 * time.Second):
		t.Fatal("applyPatch did not return after grant approval")
	}

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(data))
}

func TestApplyPatch_RejectedGrantLeavesFileUnwritten(t *testing.T) {
	allowedDir := t.TempDir()
	outsideDir := t.TempDir()
	target := filepath.Join(outsideDir, "new.txt")

	sess, events := newPatchTestSession(types.ApprovalUnlessTrusted, []types.WritableRoot{{Root: allowedDir}})

	go func() {
		for ev := range events {
			if ev.Msg.Type == types.MsgApplyPatchApprovalRequest {
				sess.notifyApproval("sub-1", types.DecisionDenied)
				return
			}
		}
	}()

	result := applyPatch(context.Background(), sess, "sub-1", "call-1", addFilePatch(target, "hi"))
	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "rejected by user")

	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestApplyPatch_AbortedContextDoesNotHang(t *testing.T) {
	outsideDir := t.TempDir()
	target := filepath.Join(outsideDir, "new.txt")

	sess, _ := newPatchTestSession(types.ApprovalUnlessTrusted, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := applyPatch(ctx, sess, "sub-1", "call-1", addFilePatch(target, "hi"))
	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "aborted")
}

func TestApplyPatch_UnparsablePatchReturnsFailureWithoutAsking(t *testing.T) {
	sess, _ := newPatchTestSession(types.ApprovalOnRequest, nil)
	result := applyPatch(context.Background(), sess, "sub-1", "call-1", "not a patch")
	require.NotNil(t, result.Output)
	assert.Contains(t, result.Output.Content, "error")
}
