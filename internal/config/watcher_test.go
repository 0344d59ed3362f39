package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/internal/event"
)

func TestRootsWatcher_NilWhenNoAgentDir(t *testing.T) {
	dir := t.TempDir()
	w, err := NewRootsWatcher(dir)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestRootsWatcher_PublishesRootsOnConfigWrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".agentcore"), 0755))

	w, err := NewRootsWatcher(dir)
	require.NoError(t, err)
	require.NotNil(t, w)
	w.Start()
	defer w.Stop()

	received := make(chan event.ConfigRootsChangedData, 1)
	unsubscribe := event.Subscribe(event.ConfigRootsChanged, func(e event.Event) {
		received <- e.Data.(event.ConfigRootsChangedData)
	})
	defer unsubscribe()

	configPath := filepath.Join(dir, ".agentcore", "config.jsonc")
	extraRoot := filepath.Join(dir, "extra")
	body := `{"sandbox_policy": {"kind": "workspace-write", "writable_roots": ["` + extraRoot + `"]}}`
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0644))

	select {
	case data := <-received:
		assert.Contains(t, data.Roots, extraRoot)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for roots-changed event")
	}
}
