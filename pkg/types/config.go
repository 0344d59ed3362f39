package types

// Config is the fully resolved configuration driving one orchestrator
// instance, assembled by internal/config from layered files and
// environment overrides.
type Config struct {
	// Model is the provider model slug, e.g. "gpt-5-codex".
	Model string `json:"model,omitempty"`
	// Provider selects which wire protocol and base URL to use.
	Provider string `json:"provider,omitempty"`
	// Instructions, when set, is sent as the system prompt on the first
	// turn of a session.
	Instructions string `json:"instructions,omitempty"`

	ApprovalPolicy         ApprovalPolicy `json:"approval_policy,omitempty"`
	SandboxPolicy          SandboxPolicy  `json:"sandbox_policy,omitempty"`
	DisableResponseStorage bool           `json:"disable_response_storage,omitempty"`

	// Verbosity is the logging level name ("debug", "info", "warn", "error").
	Verbosity string `json:"verbosity,omitempty"`

	// RecordSubmissionsPath and RecordEventsPath, when non-empty, enable
	// append-only JSONL recording of the inbound/outbound queues.
	RecordSubmissionsPath string `json:"record_submissions_path,omitempty"`
	RecordEventsPath      string `json:"record_events_path,omitempty"`

	// InitialPrompt is enqueued as the first UserInput submission when the
	// CLI starts a non-interactive run.
	InitialPrompt string `json:"initial_prompt,omitempty"`

	// MaxStreamRetries bounds the model client's retry-with-backoff loop.
	MaxStreamRetries int `json:"max_stream_retries,omitempty"`
	// StreamIdleTimeoutMS is the SSE idle timeout in milliseconds.
	StreamIdleTimeoutMS int64 `json:"stream_idle_timeout_ms,omitempty"`

	// Provider-level settings, keyed by provider name.
	Providers map[string]ProviderConfig `json:"providers,omitempty"`
}

// ProviderConfig holds per-provider connection settings.
type ProviderConfig struct {
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
	WireAPI  string `json:"wire_api,omitempty"` // "responses" | "chat"
}
