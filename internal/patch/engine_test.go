package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanAndApply_AddDeleteUpdate(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	require.NoError(t, os.WriteFile(existing, []byte("one\ntwo\n"), 0644))
	toDelete := filepath.Join(dir, "gone.txt")
	require.NoError(t, os.WriteFile(toDelete, []byte("bye\n"), 0644))

	newFile := filepath.Join(dir, "sub", "new.txt")
	text := "*** Begin Patch\n" +
		"*** Add File: " + newFile + "\n" +
		"+hello\n" +
		"*** Delete File: " + toDelete + "\n" +
		"*** Update File: " + existing + "\n" +
		"@@\n" +
		"-two\n" +
		"+TWO\n" +
		"*** End Patch"

	plan, err := BuildPlan(text)
	require.NoError(t, err)
	require.Len(t, plan.Changes, 3)
	assert.Contains(t, plan.Diffs, existing)

	require.NoError(t, Apply(plan))

	data, err := os.ReadFile(newFile)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))

	_, err = os.Stat(toDelete)
	assert.True(t, os.IsNotExist(err))

	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\n", string(data))
}

func TestBuildPlanAndApply_UpdateWithMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	require.NoError(t, os.WriteFile(src, []byte("content\n"), 0644))
	dest := filepath.Join(dir, "renamed.txt")

	text := "*** Begin Patch\n" +
		"*** Update File: " + src + "\n" +
		"*** Move to: " + dest + "\n" +
		"@@\n" +
		"-content\n" +
		"+content2\n" +
		"*** End Patch"

	plan, err := BuildPlan(text)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{src, dest}, plan.Paths())

	require.NoError(t, Apply(plan))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "content2\n", string(data))
}

func TestBuildPlan_NoHunksIsError(t *testing.T) {
	_, err := BuildPlan("*** Begin Patch\n*** End Patch")
	require.Error(t, err)
}
