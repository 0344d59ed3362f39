package modelclient

import "fmt"

// UnexpectedStatus is returned for any non-2xx HTTP response that isn't
// 429/5xx (those retry instead). The body is captured verbatim since the
// Responses API returns a structured JSON error description there, and an
// opaque "unexpected status 400" is useless for debugging a rejected
// request.
type UnexpectedStatus struct {
	Code int
	Body string
}

func (e *UnexpectedStatus) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// RetryLimitError is returned once a 429/5xx response has been retried
// Config.MaxStreamRetries times without success.
type RetryLimitError struct {
	Code int
}

func (e *RetryLimitError) Error() string {
	return fmt.Sprintf("retry limit reached, last status %d", e.Code)
}

// StreamError wraps a mid-stream failure: a transport read error, the idle
// timeout firing, or the stream ending before response.completed arrived.
type StreamError struct {
	Reason string
}

func (e *StreamError) Error() string { return e.Reason }

// EnvVarError is returned when a provider's API key environment variable
// is unset.
type EnvVarError struct {
	Var string
}

func (e *EnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Var)
}
