package patch

import (
	"fmt"
	"strings"

	"github.com/agentcore/agentcore/pkg/types"
)

const (
	beginPatchMarker        = "*** Begin Patch"
	endPatchMarker          = "*** End Patch"
	addFileMarker           = "*** Add File: "
	deleteFileMarker        = "*** Delete File: "
	updateFileMarker        = "*** Update File: "
	moveToMarker            = "*** Move to: "
	eofMarker               = "*** End of File"
	changeContextMarker     = "@@ "
	emptyChangeContextMarker = "@@"
)

// ParseError reports a malformed patch, naming the offending line when known.
type ParseError struct {
	Message    string
	LineNumber int // 0 when the error isn't tied to a specific line
}

func (e *ParseError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("invalid hunk at line %d: %s", e.LineNumber, e.Message)
	}
	return fmt.Sprintf("invalid patch: %s", e.Message)
}

// Parse parses the full "*** Begin Patch" ... "*** End Patch" text into
// an ordered list of hunks. It does not touch the filesystem.
func Parse(text string) ([]types.Hunk, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != beginPatchMarker {
		return nil, &ParseError{Message: "the first line of the patch must be '" + beginPatchMarker + "'"}
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != endPatchMarker {
		return nil, &ParseError{Message: "the last line of the patch must be '" + endPatchMarker + "'"}
	}

	var hunks []types.Hunk
	remaining := lines[1:last]
	lineNumber := 2
	for len(remaining) > 0 {
		hunk, consumed, err := parseOneHunk(remaining, lineNumber)
		if err != nil {
			return nil, err
		}
		hunks = append(hunks, hunk)
		lineNumber += consumed
		remaining = remaining[consumed:]
	}
	return hunks, nil
}

func parseOneHunk(lines []string, lineNumber int) (types.Hunk, int, error) {
	first := strings.TrimSpace(lines[0])

	if path, ok := strings.CutPrefix(first, addFileMarker); ok {
		var contents strings.Builder
		consumed := 1
		for _, line := range lines[1:] {
			body, ok := strings.CutPrefix(line, "+")
			if !ok {
				break
			}
			contents.WriteString(body)
			contents.WriteByte('\n')
			consumed++
		}
		return types.Hunk{Kind: types.HunkAddFile, Path: path, Contents: contents.String()}, consumed, nil
	}

	if path, ok := strings.CutPrefix(first, deleteFileMarker); ok {
		return types.Hunk{Kind: types.HunkDeleteFile, Path: path}, 1, nil
	}

	if path, ok := strings.CutPrefix(first, updateFileMarker); ok {
		remaining := lines[1:]
		consumed := 1

		movePath := ""
		if len(remaining) > 0 {
			if dest, ok := strings.CutPrefix(remaining[0], moveToMarker); ok {
				movePath = dest
				remaining = remaining[1:]
				consumed++
			}
		}

		var chunks []types.UpdateFileChunk
		for len(remaining) > 0 {
			if strings.TrimSpace(remaining[0]) == "" {
				consumed++
				remaining = remaining[1:]
				continue
			}
			if strings.HasPrefix(remaining[0], "***") {
				break
			}

			chunk, chunkLines, err := parseUpdateFileChunk(remaining, lineNumber+consumed, len(chunks) == 0)
			if err != nil {
				return types.Hunk{}, 0, err
			}
			chunks = append(chunks, chunk)
			consumed += chunkLines
			remaining = remaining[chunkLines:]
		}

		if len(chunks) == 0 {
			return types.Hunk{}, 0, &ParseError{
				Message:    fmt.Sprintf("update file hunk for path '%s' is empty", path),
				LineNumber: lineNumber,
			}
		}

		return types.Hunk{Kind: types.HunkUpdateFile, Path: path, MovePath: movePath, Chunks: chunks}, consumed, nil
	}

	return types.Hunk{}, 0, &ParseError{
		Message: fmt.Sprintf(
			"'%s' is not a valid hunk header. Valid hunk headers: '%s{path}', '%s{path}', '%s{path}'",
			first, addFileMarker, deleteFileMarker, updateFileMarker,
		),
		LineNumber: lineNumber,
	}
}

func parseUpdateFileChunk(lines []string, lineNumber int, allowMissingContext bool) (types.UpdateFileChunk, int, error) {
	if len(lines) == 0 {
		return types.UpdateFileChunk{}, 0, &ParseError{Message: "update hunk does not contain any lines", LineNumber: lineNumber}
	}

	var changeContext string
	startIndex := 0
	switch {
	case lines[0] == emptyChangeContextMarker:
		startIndex = 1
	case strings.HasPrefix(lines[0], changeContextMarker):
		changeContext = strings.TrimPrefix(lines[0], changeContextMarker)
		startIndex = 1
	default:
		if !allowMissingContext {
			return types.UpdateFileChunk{}, 0, &ParseError{
				Message:    fmt.Sprintf("expected update hunk to start with a @@ context marker, got: '%s'", lines[0]),
				LineNumber: lineNumber,
			}
		}
	}

	if startIndex >= len(lines) {
		return types.UpdateFileChunk{}, 0, &ParseError{Message: "update hunk does not contain any lines", LineNumber: lineNumber + 1}
	}

	chunk := types.UpdateFileChunk{ChangeContext: changeContext}
	parsed := 0

	for _, line := range lines[startIndex:] {
		if line == eofMarker {
			if parsed == 0 {
				return types.UpdateFileChunk{}, 0, &ParseError{Message: "update hunk does not contain any lines", LineNumber: lineNumber + 1}
			}
			chunk.IsEndOfFile = true
			parsed++
			break
		}

		if line == "" {
			chunk.OldLines = append(chunk.OldLines, "")
			chunk.NewLines = append(chunk.NewLines, "")
			parsed++
			continue
		}

		switch line[0] {
		case ' ':
			chunk.OldLines = append(chunk.OldLines, line[1:])
			chunk.NewLines = append(chunk.NewLines, line[1:])
		case '+':
			chunk.NewLines = append(chunk.NewLines, line[1:])
		case '-':
			chunk.OldLines = append(chunk.OldLines, line[1:])
		default:
			if parsed == 0 {
				return types.UpdateFileChunk{}, 0, &ParseError{
					Message:    fmt.Sprintf("unexpected line found in update hunk: '%s'. Every line should start with ' ' (context line), '+' (added line), or '-' (removed line)", line),
					LineNumber: lineNumber + 1,
				}
			}
			// Assume this is the start of the next hunk header.
			return chunk, parsed + startIndex, nil
		}
		parsed++
	}

	return chunk, parsed + startIndex, nil
}
