package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore/agentcore/pkg/types"
)

func withIsolatedHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	t.Cleanup(func() { os.Setenv("HOME", oldHome) })
	return tmpDir
}

func TestLoadDefaults(t *testing.T) {
	withIsolatedHome(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, types.ApprovalOnFailure, cfg.ApprovalPolicy)
	assert.Equal(t, types.SandboxPolicyWorkspaceWrite, cfg.SandboxPolicy.Kind)
	assert.Equal(t, "info", cfg.Verbosity)
}

func TestLoadProjectConfig(t *testing.T) {
	withIsolatedHome(t)
	project := t.TempDir()

	cfgJSON := `{
		"model": "gpt-5-codex",
		"approval_policy": "on-request",
		"sandbox_policy": {"kind": "read-only"}
	}`
	configPath := filepath.Join(project, ".agentcore", "config.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte(cfgJSON), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-codex", cfg.Model)
	assert.Equal(t, types.ApprovalOnRequest, cfg.ApprovalPolicy)
	assert.Equal(t, types.SandboxPolicyReadOnly, cfg.SandboxPolicy.Kind)
}

func TestLoadJSONCComments(t *testing.T) {
	withIsolatedHome(t)
	project := t.TempDir()

	cfgJSONC := `{
		// model slug
		"model": "gpt-5-codex",
		/* disable server-side
		   response storage */
		"disable_response_storage": true
	}`
	configPath := filepath.Join(project, ".agentcore", "config.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte(cfgJSONC), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-codex", cfg.Model)
	assert.True(t, cfg.DisableResponseStorage)
}

func TestConfigMerge(t *testing.T) {
	withIsolatedHome(t)
	home := os.Getenv("HOME")

	globalJSON := `{"model": "gpt-5-codex", "verbosity": "debug"}`
	globalPath := filepath.Join(home, ".config", "agentcore", "config.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(globalPath), 0755))
	require.NoError(t, os.WriteFile(globalPath, []byte(globalJSON), 0644))

	project := t.TempDir()
	projectJSON := `{"model": "gpt-5-codex-mini"}`
	projectPath := filepath.Join(project, ".agentcore", "config.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(projectPath), 0755))
	require.NoError(t, os.WriteFile(projectPath, []byte(projectJSON), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "gpt-5-codex-mini", cfg.Model, "project config should override global")
	assert.Equal(t, "debug", cfg.Verbosity, "global-only fields should be preserved")
}

func TestEnvVarOverride(t *testing.T) {
	withIsolatedHome(t)
	os.Setenv("AGENTCORE_MODEL", "env-model")
	defer os.Unsetenv("AGENTCORE_MODEL")

	project := t.TempDir()
	cfgJSON := `{"model": "file-model"}`
	configPath := filepath.Join(project, ".agentcore", "config.jsonc")
	require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0755))
	require.NoError(t, os.WriteFile(configPath, []byte(cfgJSON), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)

	assert.Equal(t, "env-model", cfg.Model)
}

func TestProviderAPIKeyFromEnv(t *testing.T) {
	withIsolatedHome(t)
	os.Setenv("OPENAI_API_KEY", "sk-test-123")
	defer os.Unsetenv("OPENAI_API_KEY")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Contains(t, cfg.Providers, "openai")
	assert.Equal(t, "sk-test-123", cfg.Providers["openai"].APIKey)
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.jsonc")

	cfg := &types.Config{Model: "gpt-5-codex"}
	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gpt-5-codex")
}
