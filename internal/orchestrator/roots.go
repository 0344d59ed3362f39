package orchestrator

import (
	"os"
	"path/filepath"

	"github.com/agentcore/agentcore/pkg/types"
)

// buildWritableRoots resolves a SandboxPolicy into the concrete, absolute
// directories a session may write under. A workspace-write policy grants
// its configured roots (defaulting to the current directory when none are
// set) with ".git" carved out as read-only in each, so the model can
// inspect history without being able to rewrite it; read-only and
// danger-full-access policies contribute no writable roots of their own —
// the latter bypasses the writable-roots check entirely at the call site.
func buildWritableRoots(policy types.SandboxPolicy) []types.WritableRoot {
	if policy.Kind != types.SandboxPolicyWorkspaceWrite {
		return nil
	}

	roots := policy.WritableRoots
	if len(roots) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			roots = []string{cwd}
		}
	}

	result := make([]types.WritableRoot, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			abs = r
		}
		result = append(result, types.WritableRoot{
			Root:             abs,
			ReadOnlySubpaths: []string{filepath.Join(abs, ".git")},
		})
	}
	return result
}

// firstOffendingPath returns the first path not covered by any writable
// root, plus the directory that would need to be granted to cover it. Ok
// is false when every path is already writable.
func firstOffendingPath(paths []string, roots []types.WritableRoot) (path string, grantRoot string, ok bool) {
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			if cwd, err := os.Getwd(); err == nil {
				abs = filepath.Join(cwd, abs)
			}
		}
		covered := false
		for _, root := range roots {
			if root.Contains(abs) {
				covered = true
				break
			}
		}
		if !covered {
			return abs, filepath.Dir(abs), true
		}
	}
	return "", "", false
}
