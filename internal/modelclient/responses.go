package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agentcore/agentcore/pkg/types"
)

// responsesPayload is the wire body posted to POST {base_url}/responses.
type responsesPayload struct {
	Model             string                  `json:"model"`
	Instructions      string                  `json:"instructions"`
	Input             []types.ResponseItem    `json:"input"`
	Tools             []openAITool            `json:"tools"`
	ToolChoice        string                  `json:"tool_choice"`
	ParallelToolCalls bool                    `json:"parallel_tool_calls"`
	Reasoning         *types.ReasoningConfig  `json:"reasoning,omitempty"`
	PreviousResponse  string                  `json:"previous_response_id,omitempty"`
	Store             bool                    `json:"store"`
	Stream            bool                    `json:"stream"`
}

func (c *ModelClient) buildResponsesPayload(prompt types.Prompt) responsesPayload {
	var reasoning *types.ReasoningConfig
	if c.reasoningEffort != "" {
		reasoning = &types.ReasoningConfig{Effort: c.reasoningEffort, Summary: "auto"}
	}
	return responsesPayload{
		Model:             c.model,
		Instructions:      prompt.Instructions,
		Input:             prompt.Input,
		Tools:             buildToolsJSON(prompt.ExtraTools),
		ToolChoice:        "auto",
		ParallelToolCalls: false,
		Reasoning:         reasoning,
		PreviousResponse:  prompt.PrevID,
		Store:             prompt.Store,
		Stream:            true,
	}
}

// streamResponses implements the Responses wire API: build the payload,
// POST with bearer auth, and on success hand the body to the SSE
// processor. 429/5xx responses retry (honoring Retry-After, else
// exponential backoff) up to c.maxRetries attempts; any other non-2xx
// status fails immediately with the response body attached.
func (c *ModelClient) streamResponses(ctx context.Context, prompt types.Prompt) (*ResponseStream, error) {
	payload := c.buildResponsesPayload(prompt)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal responses payload: %w", err)
	}

	url := strings.TrimRight(c.provider.BaseURL, "/") + "/responses"

	if c.apiKey == "" {
		return nil, &EnvVarError{Var: c.apiKeyEnvVar}
	}

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxInterval = 30 * time.Second
	retry.RandomizationFactor = 0.5
	retry.Multiplier = 2.0
	retry.Reset()

	attempt := 0
	for {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build responses request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("OpenAI-Beta", "responses=experimental")
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt > c.maxRetries {
				return nil, err
			}
			if !sleepCtx(ctx, retry.NextBackOff()) {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			ch := make(chan StreamResult, 16)
			go processSSE(resp.Body, c.idleTimeout, ch)
			return &ResponseStream{Events: ch}, nil
		}

		if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, &UnexpectedStatus{Code: resp.StatusCode, Body: string(respBody)}
		}

		status := resp.StatusCode
		retryAfter, hasRetryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		resp.Body.Close()

		if attempt > c.maxRetries {
			return nil, &RetryLimitError{Code: status}
		}

		delay := retryAfter
		if !hasRetryAfter {
			delay = retry.NextBackOff()
		}
		if !sleepCtx(ctx, delay) {
			return nil, ctx.Err()
		}
	}
}

// parseRetryAfter parses a Retry-After header's delay-seconds form. The
// Responses API never sends the HTTP-date form, so that's not handled. A
// present-but-zero header is honored as a zero delay, distinct from the
// header being absent entirely.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// sleepCtx sleeps for d or returns early with false if ctx is canceled
// first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
