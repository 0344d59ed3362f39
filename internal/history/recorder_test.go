package history

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/pkg/types"
)

func TestRecorderAppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.jsonl")

	rec, err := NewRecorder(path)
	require.NoError(t, err)
	defer rec.Close()

	sub := types.NewUserInput([]types.InputItem{types.TextInput{Text: "hello"}})
	require.NoError(t, rec.RecordSubmission(sub))

	ev := types.NewEvent(sub.ID, types.Msg{Type: types.MsgTaskStarted})
	require.NoError(t, rec.RecordEvent(ev))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "hello")
	assert.Contains(t, lines[1], "task_started")
}
