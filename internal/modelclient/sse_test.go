package modelclient

import (
	"io"
	"strings"
	"testing"
	"time"
)

func TestProcessSSE_ForwardsOutputItemDoneThenCompleted(t *testing.T) {
	body := `data: {"type":"response.output_item.done","item":{"type":"function_call","name":"shell","arguments":"{}","call_id":"call-1"}}

data: {"type":"response.completed","response":{"id":"resp-1"}}

`
	ch := make(chan StreamResult, 4)
	processSSE(io.NopCloser(strings.NewReader(body)), time.Second, ch)

	first := <-ch
	if first.Err != nil {
		t.Fatalf("unexpected error: %v", first.Err)
	}
	if first.Event.Kind != OutputItemDone || first.Event.Item.CallID != "call-1" {
		t.Fatalf("unexpected first event: %+v", first.Event)
	}

	second := <-ch
	if second.Err != nil {
		t.Fatalf("unexpected error: %v", second.Err)
	}
	if second.Event.Kind != Completed || second.Event.ResponseID != "resp-1" {
		t.Fatalf("unexpected second event: %+v", second.Event)
	}

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after Completed")
	}
}

func TestProcessSSE_StreamEndsBeforeCompletedErrors(t *testing.T) {
	body := `data: {"type":"response.output_item.done","item":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"hi"}]}}

`
	ch := make(chan StreamResult, 4)
	processSSE(io.NopCloser(strings.NewReader(body)), time.Second, ch)

	first := <-ch
	if first.Err != nil || first.Event.Kind != OutputItemDone {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second := <-ch
	if second.Err == nil {
		t.Fatal("expected a stream error when completed never arrives")
	}
	if !strings.Contains(second.Err.Error(), "before response.completed") {
		t.Fatalf("unexpected error: %v", second.Err)
	}
}

func TestProcessSSE_IdleTimeoutFires(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ch := make(chan StreamResult, 1)
	processSSE(io.NopCloser(r), 10*time.Millisecond, ch)

	result := <-ch
	if result.Err == nil || !strings.Contains(result.Err.Error(), "idle timeout") {
		t.Fatalf("expected idle timeout error, got %+v", result)
	}
}

func TestProcessSSE_IgnoresUnknownEventTypes(t *testing.T) {
	body := `data: {"type":"response.in_progress"}

data: {"type":"response.output_item.done","item":{"type":"message","role":"assistant","content":[{"type":"output_text","text":"ok"}]}}

data: {"type":"response.completed","response":{"id":"resp-2"}}

`
	ch := make(chan StreamResult, 4)
	processSSE(io.NopCloser(strings.NewReader(body)), time.Second, ch)

	first := <-ch
	if first.Err != nil || first.Event.Kind != OutputItemDone {
		t.Fatalf("unexpected first result: %+v", first)
	}
	second := <-ch
	if second.Err != nil || second.Event.Kind != Completed || second.Event.ResponseID != "resp-2" {
		t.Fatalf("unexpected second result: %+v", second)
	}
}
