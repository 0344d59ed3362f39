package modelclient

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/agentcore/agentcore/pkg/types"
)

const (
	defaultMaxRetries  = 3
	defaultIdleTimeout = 90 * time.Second
)

// ModelClient streams one turn at a time against a configured provider,
// dispatching to the Responses or Chat wire protocol per
// ProviderConfig.WireAPI. Callers always go through Stream; the two
// protocol-specific methods are unexported to avoid accidental misuse.
type ModelClient struct {
	model           string
	provider        types.ProviderConfig
	providerName    string
	httpClient      *http.Client
	apiKey          string
	apiKeyEnvVar    string
	maxRetries      int
	idleTimeout     time.Duration
	reasoningEffort string
	sseFixturePath  string
}

// NewClient builds a ModelClient for the given model and provider,
// carrying over the session-wide stream-retry and idle-timeout settings
// from Config. reasoningEffort may be empty to omit the reasoning field
// entirely (models that don't support it).
func NewClient(model string, providerName string, provider types.ProviderConfig, cfg types.Config, reasoningEffort string) *ModelClient {
	maxRetries := cfg.MaxStreamRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	idleTimeout := defaultIdleTimeout
	if cfg.StreamIdleTimeoutMS > 0 {
		idleTimeout = time.Duration(cfg.StreamIdleTimeoutMS) * time.Millisecond
	}
	return &ModelClient{
		model:           model,
		provider:        provider,
		providerName:    providerName,
		httpClient:      &http.Client{},
		apiKey:          provider.APIKey,
		apiKeyEnvVar:    strings.ToUpper(providerName) + "_API_KEY",
		maxRetries:      maxRetries,
		idleTimeout:     idleTimeout,
		reasoningEffort: reasoningEffort,
		sseFixturePath:  os.Getenv("AGENTCORE_SSE_FIXTURE"),
	}
}

// Stream dispatches prompt to the wire protocol named by the provider's
// WireAPI setting ("responses" by default, "chat" when set explicitly).
func (c *ModelClient) Stream(ctx context.Context, prompt types.Prompt) (*ResponseStream, error) {
	if c.sseFixturePath != "" {
		return streamFromFixture(c.sseFixturePath, c.idleTimeout)
	}
	switch c.provider.WireAPI {
	case "chat":
		return c.streamChat(ctx, prompt)
	case "responses", "":
		return c.streamResponses(ctx, prompt)
	default:
		return nil, fmt.Errorf("unknown wire_api %q for provider %q", c.provider.WireAPI, c.providerName)
	}
}
