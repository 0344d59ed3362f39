package modelclient

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/pkg/types"
)

// sseFrame is the JSON body of one "data:" frame from the Responses API's
// event stream. The event kind travels inside the JSON body itself (as
// "type"), not as a separate SSE "event:" field.
type sseFrame struct {
	Kind     string          `json:"type"`
	Response json.RawMessage `json:"response"`
	Item     json.RawMessage `json:"item"`
}

type responseCompleted struct {
	ID string `json:"id"`
}

// processSSE reads one Responses-API event stream and forwards decoded
// events on out, closing it when the stream ends, errors, or idles out.
//
// response.output_item.done is forwarded immediately so a running turn can
// act on a function call before the whole response finishes; the
// response.completed envelope's own (duplicated) output array is ignored,
// only its response id is kept. If the stream closes before
// response.completed is ever seen, that's reported as a StreamError rather
// than a silent success.
func processSSE(body io.ReadCloser, idleTimeout time.Duration, out chan<- StreamResult) {
	defer close(out)
	defer body.Close()

	frames := make(chan string)
	scanErrs := make(chan error, 1)
	go scanSSEFrames(body, frames, scanErrs)

	var responseID string
	haveResponseID := false

	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				if haveResponseID {
					out <- StreamResult{Event: ResponseEvent{Kind: Completed, ResponseID: responseID}}
					return
				}
				select {
				case err := <-scanErrs:
					logging.Warn().Err(err).Msg("sse stream scan failed before response.completed")
					out <- StreamResult{Err: &StreamError{Reason: err.Error()}}
				default:
					logging.Warn().Msg("sse stream closed before response.completed")
					out <- StreamResult{Err: &StreamError{Reason: "stream closed before response.completed"}}
				}
				return
			}

			var ev sseFrame
			if err := json.Unmarshal([]byte(frame), &ev); err != nil {
				continue
			}

			switch ev.Kind {
			case "response.output_item.done":
				if ev.Item == nil {
					continue
				}
				var item types.ResponseItem
				if err := json.Unmarshal(ev.Item, &item); err != nil {
					continue
				}
				out <- StreamResult{Event: ResponseEvent{Kind: OutputItemDone, Item: item}}
			case "response.completed":
				if ev.Response == nil {
					continue
				}
				var rc responseCompleted
				if err := json.Unmarshal(ev.Response, &rc); err == nil {
					responseID = rc.ID
					haveResponseID = true
				}
			default:
				// unrecognized event type; ignored.
			}
		case <-time.After(idleTimeout):
			logging.Warn().Dur("idle_timeout", idleTimeout).Msg("sse stream idle timeout")
			out <- StreamResult{Err: &StreamError{Reason: "idle timeout waiting for SSE"}}
			return
		}
	}
}

// scanSSEFrames splits a byte stream into SSE "data:" frames, joining
// consecutive data lines of one frame with "\n" per the SSE spec, and
// skipping comment lines and other field types (event/id/retry) which the
// Responses API doesn't use.
func scanSSEFrames(r io.Reader, frames chan<- string, errs chan<- error) {
	defer close(frames)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var dataLines []string
	flush := func() {
		if len(dataLines) > 0 {
			frames <- strings.Join(dataLines, "\n")
			dataLines = dataLines[:0]
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, ":"):
			// comment line, ignored
		default:
			if data, ok := strings.CutPrefix(line, "data:"); ok {
				dataLines = append(dataLines, strings.TrimPrefix(data, " "))
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		errs <- err
	}
}
