package patch

import (
	"fmt"
	"strings"

	"github.com/agentcore/agentcore/pkg/types"
)

// replacement is a (start index, number of old lines, new lines) edit to
// apply to a file's line slice.
type replacement struct {
	start   int
	oldLen  int
	newLine []string
}

// DeriveNewContents computes the full new contents of a file after applying
// chunks to its current contents. It does not touch the filesystem.
func DeriveNewContents(path, originalContents string, chunks []types.UpdateFileChunk) (string, error) {
	lines := strings.Split(originalContents, "\n")
	// split("a\n") yields a trailing "" element; drop it to match line counts
	// the way a line-oriented diff would.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	replacements, err := computeReplacements(lines, path, chunks)
	if err != nil {
		return "", err
	}

	newLines := applyReplacements(lines, replacements)
	if len(newLines) == 0 || newLines[len(newLines)-1] != "" {
		newLines = append(newLines, "")
	}
	return strings.Join(newLines, "\n"), nil
}

func computeReplacements(lines []string, path string, chunks []types.UpdateFileChunk) ([]replacement, error) {
	var replacements []replacement
	lineIndex := 0

	for _, chunk := range chunks {
		if chunk.ChangeContext != "" {
			idx, ok := seekSequence(lines, []string{chunk.ChangeContext}, lineIndex, false)
			if !ok {
				return nil, fmt.Errorf("failed to find context %q in %s", chunk.ChangeContext, path)
			}
			lineIndex = idx + 1
		}

		if len(chunk.OldLines) == 0 {
			insertAt := len(lines)
			if len(lines) > 0 && lines[len(lines)-1] == "" {
				insertAt = len(lines) - 1
			}
			replacements = append(replacements, replacement{start: insertAt, newLine: chunk.NewLines})
			continue
		}

		pattern := chunk.OldLines
		newSlice := chunk.NewLines
		start, ok := seekSequence(lines, pattern, lineIndex, chunk.IsEndOfFile)

		if !ok && len(pattern) > 0 && pattern[len(pattern)-1] == "" {
			pattern = pattern[:len(pattern)-1]
			if len(newSlice) > 0 && newSlice[len(newSlice)-1] == "" {
				newSlice = newSlice[:len(newSlice)-1]
			}
			start, ok = seekSequence(lines, pattern, lineIndex, chunk.IsEndOfFile)
		}

		if !ok {
			return nil, fmt.Errorf("failed to find expected lines %v in %s", chunk.OldLines, path)
		}
		replacements = append(replacements, replacement{start: start, oldLen: len(pattern), newLine: newSlice})
		lineIndex = start + len(pattern)
	}

	return replacements, nil
}

// applyReplacements applies edits in descending start order so that earlier
// edits never shift the indices of later ones.
func applyReplacements(lines []string, replacements []replacement) []string {
	result := append([]string(nil), lines...)
	for i := len(replacements) - 1; i >= 0; i-- {
		r := replacements[i]
		end := r.start + r.oldLen
		if end > len(result) {
			end = len(result)
		}
		tail := append([]string(nil), result[end:]...)
		result = append(result[:r.start], r.newLine...)
		result = append(result, tail...)
	}
	return result
}
