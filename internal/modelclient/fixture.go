package modelclient

import (
	"io"
	"os"
	"strings"
	"time"
)

// streamFromFixture replays a file of newline-delimited SSE lines
// through the same SSE processor a live HTTP response would use, letting
// tests (and the AGENTCORE_SSE_FIXTURE escape hatch) exercise the full
// event-dispatch path without a network call. Each non-blank line of the
// fixture file is passed through as-is, so it must already be a complete
// SSE line such as `data: {...}`; blank lines in the file are skipped and
// a blank line is inserted after every kept line so the frame boundaries
// match what scanSSEFrames expects from a real stream.
func streamFromFixture(path string, idleTimeout time.Duration) (*ResponseStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var framed strings.Builder
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		framed.WriteString(line)
		framed.WriteString("\n\n")
	}

	ch := make(chan StreamResult, 16)
	go processSSE(io.NopCloser(strings.NewReader(framed.String())), idleTimeout, ch)
	return &ResponseStream{Events: ch}, nil
}
