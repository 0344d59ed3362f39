package permission

import "github.com/agentcore/agentcore/pkg/types"

// AssessPatchPaths checks every absolute path touched by a patch against
// the session's current writable roots, following the first-offending-path
// policy: a path is acceptable iff some writable root contains it.
// For the first path outside every root it asks the user, naming that
// path in Reason; it does not work out which root to grant, which is left
// to the caller.
func AssessPatchPaths(paths []string, roots []types.WritableRoot) types.AssessmentOutcome {
	for _, p := range paths {
		if !anyRootContains(p, roots) {
			return types.AssessmentOutcome{
				Kind:   types.AssessmentAskUser,
				Reason: "path outside writable roots: " + p,
			}
		}
	}
	return types.AssessmentOutcome{Kind: types.AssessmentAutoApprove, SandboxType: types.SandboxWorkspaceWrite}
}

func anyRootContains(path string, roots []types.WritableRoot) bool {
	for _, root := range roots {
		if root.Contains(path) {
			return true
		}
	}
	return false
}
