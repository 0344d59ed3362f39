package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentcore/agentcore/pkg/types"
)

// chatMessage is one entry of a Chat Completions request's messages array.
type chatMessage struct {
	Role       string          `json:"role"`
	Content    string          `json:"content,omitempty"`
	ToolCallID string          `json:"tool_call_id,omitempty"`
	ToolCalls  []chatToolCall  `json:"tool_calls,omitempty"`
}

type chatToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function chatToolCallFunc `json:"function"`
}

type chatToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatPayload struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Tools    []chatToolSpec `json:"tools,omitempty"`
	Stream   bool           `json:"stream"`
}

type chatToolSpec struct {
	Type     string           `json:"type"`
	Function chatFunctionSpec `json:"function"`
}

type chatFunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// promptToChatMessages flattens a Prompt's instructions and ResponseItem
// input into the Chat Completions message array, the inverse of the
// Responses API's single "input" array.
func promptToChatMessages(prompt types.Prompt) []chatMessage {
	var out []chatMessage
	if prompt.Instructions != "" {
		out = append(out, chatMessage{Role: "system", Content: prompt.Instructions})
	}
	for _, item := range prompt.Input {
		switch item.Type {
		case types.ResponseItemMessage:
			var text strings.Builder
			for _, c := range item.Content {
				text.WriteString(c.Text)
			}
			role := item.Role
			if role == "" {
				role = "user"
			}
			out = append(out, chatMessage{Role: role, Content: text.String()})
		case types.ResponseItemFunctionCall:
			out = append(out, chatMessage{
				Role: "assistant",
				ToolCalls: []chatToolCall{{
					ID:   item.CallID,
					Type: "function",
					Function: chatToolCallFunc{
						Name:      item.Name,
						Arguments: item.Arguments,
					},
				}},
			})
		case types.ResponseItemFunctionCallOutput:
			content := ""
			if item.Output != nil {
				content = item.Output.Content
			}
			out = append(out, chatMessage{Role: "tool", ToolCallID: item.CallID, Content: content})
		}
	}
	return out
}

func toolsToChatSpecs(extra []types.ToolSpec) []chatToolSpec {
	tools := buildToolsJSON(extra)
	specs := make([]chatToolSpec, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, chatToolSpec{
			Type: "function",
			Function: chatFunctionSpec{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return specs
}

// chatChunkDelta is one streamed chunk of a Chat Completions response.
type chatChunkDelta struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

// streamChat implements the Chat Completions wire API. It aggregates
// per-token deltas into whole ResponseItems (one message, one FunctionCall
// per tool call) and emits them only once the stream signals completion,
// so callers see the same OutputItemDone/Completed shape as the Responses
// path regardless of which protocol the provider actually speaks.
func (c *ModelClient) streamChat(ctx context.Context, prompt types.Prompt) (*ResponseStream, error) {
	payload := chatPayload{
		Model:    c.model,
		Messages: promptToChatMessages(prompt),
		Tools:    toolsToChatSpecs(prompt.ExtraTools),
		Stream:   true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	if c.apiKey == "" {
		return nil, &EnvVarError{Var: c.apiKeyEnvVar}
	}

	url := strings.TrimRight(c.provider.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		respBody := readAllBestEffort(resp.Body)
		return nil, &UnexpectedStatus{Code: resp.StatusCode, Body: respBody}
	}

	ch := make(chan StreamResult, 16)
	go aggregateChatStream(resp.Body, c.idleTimeout, ch)
	return &ResponseStream{Events: ch}, nil
}

// aggregateChatStream reads Chat Completions SSE chunks ("data: {...}"
// frames terminated by a literal "data: [DONE]") and accumulates them into
// ResponseItems, emitting each once finish_reason arrives.
func aggregateChatStream(body io.ReadCloser, idleTimeout time.Duration, out chan<- StreamResult) {
	defer close(out)
	defer body.Close()

	frames := make(chan string)
	scanErrs := make(chan error, 1)
	go scanSSEFrames(body, frames, scanErrs)

	var textContent strings.Builder
	calls := map[int]*chatToolCall{}
	callOrder := []int{}

	emit := func() {
		if textContent.Len() > 0 {
			out <- StreamResult{Event: ResponseEvent{
				Kind: OutputItemDone,
				Item: types.NewAssistantMessage(textContent.String()),
			}}
		}
		for _, idx := range callOrder {
			tc := calls[idx]
			out <- StreamResult{Event: ResponseEvent{
				Kind: OutputItemDone,
				Item: types.ResponseItem{
					Type:      types.ResponseItemFunctionCall,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
					CallID:    tc.ID,
				},
			}}
		}
		out <- StreamResult{Event: ResponseEvent{Kind: Completed}}
	}

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				select {
				case err := <-scanErrs:
					out <- StreamResult{Err: &StreamError{Reason: err.Error()}}
					return
				default:
				}
				emit()
				return
			}
			if strings.TrimSpace(frame) == "[DONE]" {
				emit()
				return
			}
			var chunk chatChunkDelta
			if err := json.Unmarshal([]byte(frame), &chunk); err != nil {
				continue
			}
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					textContent.WriteString(choice.Delta.Content)
				}
				for _, tc := range choice.Delta.ToolCalls {
					existing, ok := calls[tc.Index]
					if !ok {
						existing = &chatToolCall{Type: "function"}
						calls[tc.Index] = existing
						callOrder = append(callOrder, tc.Index)
					}
					if tc.ID != "" {
						existing.ID = tc.ID
					}
					if tc.Function.Name != "" {
						existing.Function.Name = tc.Function.Name
					}
					existing.Function.Arguments += tc.Function.Arguments
				}
				if choice.FinishReason != nil {
					emit()
					return
				}
			}
		case <-time.After(idleTimeout):
			out <- StreamResult{Err: &StreamError{Reason: "idle timeout waiting for SSE"}}
			return
		}
	}
}

func readAllBestEffort(r io.Reader) string {
	data, _ := io.ReadAll(r)
	return string(data)
}
