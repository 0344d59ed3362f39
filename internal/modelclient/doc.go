// Package modelclient streams one model turn at a time against either the
// OpenAI Responses wire API or the Chat Completions wire API, selected per
// provider by types.ProviderConfig.WireAPI.
//
// The Responses path posts the full prompt and reads back a
// server-sent-event stream, forwarding each "response.output_item.done"
// event live (rather than waiting for "response.completed") so the rest of
// the agent can act on a function call without stalling on the rest of the
// turn. The Chat path speaks the older per-token-delta protocol and
// aggregates deltas into the same ResponseEvent shape so callers never see
// the difference.
//
// Only the Responses path retries: a non-2xx, non-retryable status fails
// immediately with UnexpectedStatus; 429 and 5xx responses retry honoring
// Retry-After when present, otherwise exponential backoff, up to
// Config.MaxStreamRetries retries. The Chat path does not retry: any
// non-2xx status fails immediately with UnexpectedStatus.
package modelclient
