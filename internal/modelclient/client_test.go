package modelclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agentcore/agentcore/pkg/types"
)

func newTestClient(t *testing.T, server *httptest.Server, wireAPI string) *ModelClient {
	t.Helper()
	provider := types.ProviderConfig{APIKey: "test-key", BaseURL: server.URL, WireAPI: wireAPI}
	cfg := types.Config{MaxStreamRetries: 2, StreamIdleTimeoutMS: 500}
	return NewClient("test-model", "test", provider, cfg, "")
}

func TestStream_ResponsesPathForwardsEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("OpenAI-Beta") != "responses=experimental" {
			t.Errorf("missing OpenAI-Beta header")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		w.Write([]byte(`data: {"type":"response.output_item.done","item":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hi"}]}}` + "\n\n"))
		flusher.Flush()
		w.Write([]byte(`data: {"type":"response.completed","response":{"id":"resp-abc"}}` + "\n\n"))
		flusher.Flush()
	}))
	defer server.Close()

	client := newTestClient(t, server, "responses")
	stream, err := client.Stream(context.Background(), types.Prompt{Input: []types.ResponseItem{
		{Type: types.ResponseItemMessage, Role: "user", Content: []types.ContentItem{{Type: "input_text", Text: "hello"}}},
	}})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	first, ok := stream.Recv()
	if !ok || first.Err != nil {
		t.Fatalf("first recv: ok=%v err=%v", ok, first.Err)
	}
	if first.Event.Kind != OutputItemDone {
		t.Fatalf("expected OutputItemDone, got %+v", first.Event)
	}

	second, ok := stream.Recv()
	if !ok || second.Err != nil {
		t.Fatalf("second recv: ok=%v err=%v", ok, second.Err)
	}
	if second.Event.Kind != Completed || second.Event.ResponseID != "resp-abc" {
		t.Fatalf("expected Completed resp-abc, got %+v", second.Event)
	}
}

func TestStream_ResponsesPathUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Unknown parameter"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "responses")
	_, err := client.Stream(context.Background(), types.Prompt{})
	if err == nil {
		t.Fatal("expected an error")
	}
	status, ok := err.(*UnexpectedStatus)
	if !ok {
		t.Fatalf("expected *UnexpectedStatus, got %T: %v", err, err)
	}
	if status.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status.Code)
	}
}

func TestStream_ResponsesPathRetriesOn429ThenSucceeds(t *testing.T) {
	attempt := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempt++
		if attempt == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		w.Write([]byte(`data: {"type":"response.completed","response":{"id":"resp-retry"}}` + "\n\n"))
		flusher.Flush()
	}))
	defer server.Close()

	client := newTestClient(t, server, "responses")
	stream, err := client.Stream(context.Background(), types.Prompt{})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	result, ok := stream.Recv()
	if !ok || result.Err != nil {
		t.Fatalf("recv: ok=%v err=%v", ok, result.Err)
	}
	if result.Event.ResponseID != "resp-retry" {
		t.Fatalf("unexpected response id %q", result.Event.ResponseID)
	}
	if attempt != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", attempt)
	}
}

func TestStream_ChatPathAggregatesDeltasIntoOneMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"Hel"},"finish_reason":null}]}` + "\n\n"))
		flusher.Flush()
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"lo"},"finish_reason":null}]}` + "\n\n"))
		flusher.Flush()
		w.Write([]byte(`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}` + "\n\n"))
		flusher.Flush()
		w.Write([]byte(`data: [DONE]` + "\n\n"))
		flusher.Flush()
	}))
	defer server.Close()

	client := newTestClient(t, server, "chat")
	stream, err := client.Stream(context.Background(), types.Prompt{Instructions: "be helpful"})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}

	msg, ok := stream.Recv()
	if !ok || msg.Err != nil {
		t.Fatalf("first recv: ok=%v err=%v", ok, msg.Err)
	}
	if msg.Event.Kind != OutputItemDone || msg.Event.Item.Content[0].Text != "Hello" {
		t.Fatalf("expected aggregated message 'Hello', got %+v", msg.Event)
	}

	done, ok := stream.Recv()
	if !ok || done.Err != nil {
		t.Fatalf("second recv: ok=%v err=%v", ok, done.Err)
	}
	if done.Event.Kind != Completed {
		t.Fatalf("expected Completed, got %+v", done.Event)
	}
}

func TestStream_UnknownWireAPIErrors(t *testing.T) {
	provider := types.ProviderConfig{APIKey: "k", BaseURL: "http://example.invalid", WireAPI: "smoke-signal"}
	client := NewClient("m", "p", provider, types.Config{}, "")
	_, err := client.Stream(context.Background(), types.Prompt{})
	if err == nil {
		t.Fatal("expected an error for an unknown wire api")
	}
}

func TestStream_MissingAPIKeyErrors(t *testing.T) {
	provider := types.ProviderConfig{BaseURL: "http://example.invalid"}
	client := NewClient("m", "p", provider, types.Config{}, "")
	_, err := client.Stream(context.Background(), types.Prompt{})
	if err == nil {
		t.Fatal("expected an EnvVarError")
	}
	if _, ok := err.(*EnvVarError); !ok {
		t.Fatalf("expected *EnvVarError, got %T", err)
	}
}
