package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/agentcore/agentcore/pkg/types"
)

// UnifiedDiff computes a unified diff between a file's original and new
// contents, labeled with path in the --- / +++ headers.
func UnifiedDiff(path, original, newContents string) string {
	if original == newContents {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(original, newContents)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(original, diffs)
	diffText := dmp.PatchToText(patches)
	if diffText == "" {
		return ""
	}

	var b2 strings.Builder
	fmt.Fprintf(&b2, "--- %s\n", path)
	fmt.Fprintf(&b2, "+++ %s\n", path)
	b2.WriteString(diffText)
	return b2.String()
}

// FileChangeForHunk resolves a parsed Hunk against the current contents of
// the file it targets (empty for Add, ignored for Delete) into the
// fully-resolved FileChange the patch engine will write to disk.
func FileChangeForHunk(hunk types.Hunk, currentContents string) (types.FileChange, string, error) {
	switch hunk.Kind {
	case types.HunkAddFile:
		return types.FileChange{Kind: types.HunkAddFile, Path: hunk.Path, NewContents: hunk.Contents}, "", nil
	case types.HunkDeleteFile:
		return types.FileChange{Kind: types.HunkDeleteFile, Path: hunk.Path}, "", nil
	case types.HunkUpdateFile:
		newContents, err := DeriveNewContents(hunk.Path, currentContents, hunk.Chunks)
		if err != nil {
			return types.FileChange{}, "", err
		}
		diff := UnifiedDiff(hunk.Path, currentContents, newContents)
		return types.FileChange{
			Kind:        types.HunkUpdateFile,
			Path:        hunk.Path,
			NewContents: newContents,
			MovePath:    hunk.MovePath,
		}, diff, nil
	default:
		return types.FileChange{}, "", fmt.Errorf("unknown hunk kind %q", hunk.Kind)
	}
}
