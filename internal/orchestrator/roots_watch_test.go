package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentcore/agentcore/pkg/types"
)

func TestReconcileRoots_GrantsOnlyUncoveredRoots(t *testing.T) {
	sess, _ := newPatchTestSession(types.ApprovalNever, []types.WritableRoot{{Root: "/workspace"}})

	sess.reconcileRoots([]string{"/workspace", "/extra"})

	roots := sess.writableRoots()
	assert.Len(t, roots, 2)
	var have []string
	for _, r := range roots {
		have = append(have, r.Root)
	}
	assert.Contains(t, have, "/workspace")
	assert.Contains(t, have, "/extra")
}
