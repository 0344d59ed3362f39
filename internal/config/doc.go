// Package config provides configuration loading, merging, and path
// management for the agent core.
//
// # Configuration Loading
//
// Load merges configuration from three sources in priority order:
//
//  1. Global config (~/.config/agentcore/config.jsonc)
//  2. Project config (<directory>/.agentcore/config.jsonc)
//  3. Environment variables
//
// Later sources override earlier ones field by field; a project config only
// needs to specify what it overrides.
//
// # Supported Format
//
// Config files are JSONC (JSON with comments), processed with
// tidwall/jsonc before being unmarshaled.
//
// # Path Management
//
// The package provides XDG Base Directory Specification compliant path
// management through the Paths type:
//   - Data: ~/.local/share/agentcore (XDG_DATA_HOME)
//   - Config: ~/.config/agentcore (XDG_CONFIG_HOME)
//   - Cache: ~/.cache/agentcore (XDG_CACHE_HOME)
//   - State: ~/.local/state/agentcore (XDG_STATE_HOME)
//
// On Windows, these paths are adapted to use APPDATA as appropriate.
//
// # Environment Variable Overrides
//
//   - AGENTCORE_MODEL - overrides the configured model slug
//   - OPENAI_API_KEY, ANTHROPIC_API_KEY, AZURE_OPENAI_API_KEY - provider
//     API keys, overriding any key set in a config file
//
// # Agent Profiles
//
// LoadAgentProfile and ListAgentProfiles read named subagent definitions
// from <directory>/.agentcore/agents/<name>.md: a YAML front-matter block
// (model, approval_policy) followed by a Markdown body that becomes the
// profile's instructions. ApplyAgentProfile layers a loaded profile onto a
// resolved Config.
//
// # Roots Watching
//
// RootsWatcher watches a project's .agentcore directory for edits to
// config.jsonc made while a session is live, and republishes the
// reloaded sandbox's writable roots on the event package's bus so a
// running session can extend its own writable roots without a fresh
// ConfigureSession.
package config
