package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/agentcore/agentcore/pkg/types"
)

// Load loads configuration from multiple sources (priority order):
//  1. Global config (~/.config/agentcore/config.jsonc)
//  2. Project config (<directory>/.agentcore/config.jsonc)
//  3. Environment variables
func Load(directory string) (*types.Config, error) {
	config := defaultConfig()

	globalPath := GetPaths().Config
	if err := loadConfigFile(filepath.Join(globalPath, "config.jsonc"), config); err != nil {
		return nil, err
	}

	if directory != "" {
		if err := loadConfigFile(filepath.Join(directory, ".agentcore", "config.jsonc"), config); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// defaultConfig returns the configuration used when no file overrides a
// field: on-failure approvals under a workspace-write sandbox rooted at the
// current directory, matching a cautious but non-interruptive default.
func defaultConfig() *types.Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &types.Config{
		ApprovalPolicy: types.ApprovalOnFailure,
		SandboxPolicy: types.SandboxPolicy{
			Kind:          types.SandboxPolicyWorkspaceWrite,
			WritableRoots: []string{cwd},
		},
		Verbosity:           "info",
		MaxStreamRetries:    3,
		StreamIdleTimeoutMS: 30000,
		Providers:           make(map[string]types.ProviderConfig),
	}
}

// loadConfigFile merges a single JSONC config file into config, silently
// skipping a missing file.
func loadConfigFile(path string, config *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fileConfig types.Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &fileConfig); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// mergeConfig merges source config into target, field by field, so a
// project config only needs to specify what it overrides.
func mergeConfig(target, source *types.Config) {
	if source.Model != "" {
		target.Model = source.Model
	}
	if source.Provider != "" {
		target.Provider = source.Provider
	}
	if source.Instructions != "" {
		target.Instructions = source.Instructions
	}
	if source.ApprovalPolicy != "" {
		target.ApprovalPolicy = source.ApprovalPolicy
	}
	if source.SandboxPolicy.Kind != "" {
		target.SandboxPolicy = source.SandboxPolicy
	}
	if source.DisableResponseStorage {
		target.DisableResponseStorage = true
	}
	if source.Verbosity != "" {
		target.Verbosity = source.Verbosity
	}
	if source.RecordSubmissionsPath != "" {
		target.RecordSubmissionsPath = source.RecordSubmissionsPath
	}
	if source.RecordEventsPath != "" {
		target.RecordEventsPath = source.RecordEventsPath
	}
	if source.MaxStreamRetries != 0 {
		target.MaxStreamRetries = source.MaxStreamRetries
	}
	if source.StreamIdleTimeoutMS != 0 {
		target.StreamIdleTimeoutMS = source.StreamIdleTimeoutMS
	}
	if source.Providers != nil {
		if target.Providers == nil {
			target.Providers = make(map[string]types.ProviderConfig)
		}
		for name, p := range source.Providers {
			target.Providers[name] = p
		}
	}
}

// providerEnvVar names the environment variable carrying each provider's
// API key.
var providerEnvVar = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"azure":     "AZURE_OPENAI_API_KEY",
}

// applyEnvOverrides applies environment variable overrides, which take
// precedence over any config file.
func applyEnvOverrides(config *types.Config) {
	for provider, envVar := range providerEnvVar {
		apiKey := os.Getenv(envVar)
		if apiKey == "" {
			continue
		}
		if config.Providers == nil {
			config.Providers = make(map[string]types.ProviderConfig)
		}
		p := config.Providers[provider]
		p.APIKey = apiKey
		config.Providers[provider] = p
	}

	if model := os.Getenv("AGENTCORE_MODEL"); model != "" {
		config.Model = model
	}
}

// Save writes config to path as indented JSON, creating parent directories
// as needed.
func Save(config *types.Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
