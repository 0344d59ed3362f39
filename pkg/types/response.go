package types

import (
	"encoding/json"
	"fmt"
)

// ResponseItem is one entry in a model turn's output, or one entry replayed
// back into a later turn's input. It mirrors the OpenAI Responses API's
// tagged "item" shape closely enough to round-trip through JSON unchanged.
type ResponseItemType string

const (
	ResponseItemMessage            ResponseItemType = "message"
	ResponseItemFunctionCall       ResponseItemType = "function_call"
	ResponseItemFunctionCallOutput ResponseItemType = "function_call_output"
	ResponseItemReasoning          ResponseItemType = "reasoning"
	ResponseItemOther              ResponseItemType = "other"
)

// ResponseItem is a single item of model output: an assistant message, a
// function call the model wants executed, a function call's result (when
// replayed back as input), or a reasoning trace. Exactly one of the typed
// fields is populated, selected by Type.
type ResponseItem struct {
	Type ResponseItemType `json:"type"`

	// Message fields.
	Role    string        `json:"role,omitempty"`
	Content []ContentItem `json:"content,omitempty"`

	// FunctionCall fields.
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	CallID    string `json:"call_id,omitempty"`

	// FunctionCallOutput fields (Output is absent when this item instead
	// carries a FunctionCall; see CallID above for the shared key).
	Output *FunctionCallOutputPayload `json:"output,omitempty"`

	// Reasoning fields.
	Summary []string `json:"summary,omitempty"`
}

// ContentItem is one piece of a message's content array. Only the text
// variants (output_text, input_text) are modeled; the Responses API's
// image/refusal content kinds are out of scope for this module.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

const (
	ContentOutputText = "output_text"
	ContentInputText  = "input_text"
)

// FunctionCallOutputPayload is the result of a tool call, sent back to the
// model as the Output of a function_call_output ResponseItem.
type FunctionCallOutputPayload struct {
	Content string `json:"content"`
	Success *bool  `json:"success,omitempty"`
}

// NewFunctionCallOutput builds a function_call_output ResponseItem for the
// given call id.
func NewFunctionCallOutput(callID string, payload FunctionCallOutputPayload) ResponseItem {
	return ResponseItem{
		Type:   ResponseItemFunctionCallOutput,
		CallID: callID,
		Output: &payload,
	}
}

// NewAssistantMessage builds a message ResponseItem carrying one output_text
// content item, the shape produced when replaying a finished assistant turn
// back into a later prompt's input.
func NewAssistantMessage(text string) ResponseItem {
	return ResponseItem{
		Type:    ResponseItemMessage,
		Role:    "assistant",
		Content: []ContentItem{{Type: ContentOutputText, Text: text}},
	}
}

// Validate reports an error when Type disagrees with the populated fields,
// the same defensive check pattern used by Msg.Validate.
func (r ResponseItem) Validate() error {
	switch r.Type {
	case ResponseItemFunctionCall:
		if r.Name == "" || r.CallID == "" {
			return fmt.Errorf("response item type %q missing name/call_id", r.Type)
		}
	case ResponseItemFunctionCallOutput:
		if r.CallID == "" || r.Output == nil {
			return fmt.Errorf("response item type %q missing call_id/output", r.Type)
		}
	}
	return nil
}

// ReasoningConfig requests a reasoning summary at a given effort level from
// models that support it.
type ReasoningConfig struct {
	Effort  string `json:"effort"`
	Summary string `json:"summary,omitempty"` // "auto" | "" (omitted)
}

// ToolSpec describes one callable tool offered to the model, either a
// built-in (shell) or an MCP-backed tool forwarded from the orchestrator's
// connected servers.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Prompt is the fully composed input to one model turn.
type Prompt struct {
	// Input is the ordered list of ResponseItems accumulated for this turn:
	// prior turn outputs, pending function call outputs, and net-new user
	// input, in that order.
	Input []ResponseItem

	// Instructions is the system prompt, set only on a session's first turn.
	Instructions string

	// PrevID threads server-side conversation state; mutually exclusive
	// with replaying the full transcript in Input (see Store).
	PrevID string

	// Store controls whether the provider is asked to retain this turn for
	// later continuation via PrevID. False under zero-data-retention mode.
	Store bool

	// ExtraTools are MCP-backed tools available for this turn, beyond the
	// built-in shell tool.
	ExtraTools []ToolSpec
}
