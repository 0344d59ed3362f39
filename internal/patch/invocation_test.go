package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectInvocation_BareArgv(t *testing.T) {
	body, ok, err := DetectInvocation([]string{"apply_patch", "*** Begin Patch\n*** End Patch"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "*** Begin Patch\n*** End Patch", body)
}

func TestDetectInvocation_ShellHeredocWrapper(t *testing.T) {
	script := "apply_patch <<'EOF'\n*** Begin Patch\n*** Add File: a.txt\n+hi\n*** End Patch\nEOF"
	body, ok, err := DetectInvocation([]string{"bash", "-lc", script})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, body, "*** Begin Patch")
	assert.Contains(t, body, "+hi")
}

func TestDetectInvocation_NotApplyPatch(t *testing.T) {
	_, ok, err := DetectInvocation([]string{"ls", "-la"})
	require.NoError(t, err)
	assert.False(t, ok)
}
