package patch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/pkg/types"
)

// Plan is a fully-resolved, not-yet-applied patch: the parsed hunks plus
// the FileChange and unified diff each one resolves to, computed against
// the filesystem's current state so approval and writable-root checks can
// run before anything is written.
type Plan struct {
	Hunks   []types.Hunk
	Changes []types.FileChange
	Diffs   map[string]string // Path -> unified diff, Update hunks only
}

// Paths returns every absolute path the plan will touch (its own path for
// Add/Delete/Update, plus the move target for a renaming Update).
func (p Plan) Paths() []string {
	var paths []string
	for _, c := range p.Changes {
		paths = append(paths, c.Path)
		if c.MovePath != "" {
			paths = append(paths, c.MovePath)
		}
	}
	return paths
}

// BuildPlan parses patch text and resolves each hunk against the current
// contents of the files it touches (read from disk for Update hunks).
// It performs no writes.
func BuildPlan(text string) (Plan, error) {
	hunks, err := Parse(text)
	if err != nil {
		return Plan{}, err
	}
	if len(hunks) == 0 {
		return Plan{}, fmt.Errorf("no files were modified")
	}

	plan := Plan{Hunks: hunks, Diffs: make(map[string]string)}
	for _, hunk := range hunks {
		var current string
		if hunk.Kind == types.HunkUpdateFile {
			data, err := os.ReadFile(hunk.Path)
			if err != nil {
				return Plan{}, fmt.Errorf("failed to read file to update %s: %w", hunk.Path, err)
			}
			current = string(data)
		}

		change, diff, err := FileChangeForHunk(hunk, current)
		if err != nil {
			return Plan{}, err
		}
		plan.Changes = append(plan.Changes, change)
		if diff != "" {
			plan.Diffs[change.Path] = diff
		}
	}
	return plan, nil
}

// Apply writes every change in the plan to the filesystem. Add and Update
// create missing parent directories; a renaming Update writes the new path
// and removes the old one after the write succeeds.
func Apply(plan Plan) error {
	for _, change := range plan.Changes {
		switch change.Kind {
		case types.HunkAddFile:
			if err := writeWithParents(change.Path, change.NewContents); err != nil {
				return err
			}
			event.Publish(event.Event{Type: event.FileEdited, Data: event.FileEditedData{Path: change.Path}})
		case types.HunkDeleteFile:
			if err := os.Remove(change.Path); err != nil {
				return fmt.Errorf("failed to delete file %s: %w", change.Path, err)
			}
			event.Publish(event.Event{Type: event.FileEdited, Data: event.FileEditedData{Path: change.Path}})
		case types.HunkUpdateFile:
			dest := change.Path
			if change.MovePath != "" {
				dest = change.MovePath
			}
			if err := writeWithParents(dest, change.NewContents); err != nil {
				return err
			}
			if change.MovePath != "" {
				if err := os.Remove(change.Path); err != nil {
					return fmt.Errorf("failed to remove original %s: %w", change.Path, err)
				}
			}
			event.Publish(event.Event{Type: event.FileEdited, Data: event.FileEditedData{Path: dest}})
		}
	}
	return nil
}

func writeWithParents(path, contents string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create parent directories for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
