package modelclient

import "github.com/agentcore/agentcore/pkg/types"

// ResponseEventKind tags a ResponseEvent's variant.
type ResponseEventKind int

const (
	// OutputItemDone carries one finished ResponseItem, forwarded as soon
	// as the provider emits it.
	OutputItemDone ResponseEventKind = iota
	// Completed marks the end of a successful turn and carries the
	// provider's response id for later continuation.
	Completed
)

// ResponseEvent is one event of a model turn's stream.
type ResponseEvent struct {
	Kind       ResponseEventKind
	Item       types.ResponseItem // valid when Kind == OutputItemDone
	ResponseID string              // valid when Kind == Completed
}

// ResponseStream is the channel-backed handle a caller reads turn events
// from. Every send carries either an event or a terminal error; the
// channel closes after the first error or after Completed.
type ResponseStream struct {
	Events <-chan StreamResult
}

// StreamResult is one slot on a ResponseStream's channel.
type StreamResult struct {
	Event ResponseEvent
	Err   error
}

// Recv is a convenience wrapper for callers that prefer a pull API over
// ranging the channel directly. It returns ok=false once the stream has
// closed with no further results.
func (s *ResponseStream) Recv() (StreamResult, bool) {
	r, ok := <-s.Events
	return r, ok
}
