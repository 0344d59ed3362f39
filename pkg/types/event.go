package types

import (
	"encoding/json"
	"fmt"
)

// Event is an outbound notification from the orchestrator. Id echoes the
// submission id that initiated the work producing this event.
type Event struct {
	ID  string `json:"id"`
	Msg Msg    `json:"msg"`
}

// MsgType names an Event's tagged payload variant.
type MsgType string

const (
	MsgSessionConfigured        MsgType = "session_configured"
	MsgTaskStarted              MsgType = "task_started"
	MsgTaskComplete             MsgType = "task_complete"
	MsgShutdownComplete         MsgType = "shutdown_complete"
	MsgAgentMessage             MsgType = "agent_message"
	MsgAgentMessageDelta        MsgType = "agent_message_delta"
	MsgAgentReasoning           MsgType = "agent_reasoning"
	MsgAgentReasoningDelta      MsgType = "agent_reasoning_delta"
	MsgExecCommandBegin         MsgType = "exec_command_begin"
	MsgExecCommandEnd           MsgType = "exec_command_end"
	MsgPatchApplyBegin          MsgType = "patch_apply_begin"
	MsgPatchApplyEnd            MsgType = "patch_apply_end"
	MsgMcpToolCallBegin         MsgType = "mcp_tool_call_begin"
	MsgMcpToolCallEnd           MsgType = "mcp_tool_call_end"
	MsgExecApprovalRequest      MsgType = "exec_approval_request"
	MsgApplyPatchApprovalRequest MsgType = "apply_patch_approval_request"
	MsgBackgroundEvent          MsgType = "background_event"
	MsgStreamError              MsgType = "stream_error"
	MsgError                    MsgType = "error"
	MsgTurnAborted              MsgType = "turn_aborted"
)

// Msg is the tagged union payload of an Event. Exactly one of the typed
// fields is populated, selected by Type.
type Msg struct {
	Type MsgType `json:"type"`

	SessionConfigured *SessionConfiguredMsg `json:"session_configured,omitempty"`
	AgentMessage      *AgentMessageMsg      `json:"agent_message,omitempty"`
	AgentMessageDelta *AgentMessageDeltaMsg `json:"agent_message_delta,omitempty"`
	AgentReasoning    *AgentReasoningMsg    `json:"agent_reasoning,omitempty"`
	AgentReasoningDelta *AgentReasoningDeltaMsg `json:"agent_reasoning_delta,omitempty"`
	ExecCommandBegin  *ExecCommandBeginMsg  `json:"exec_command_begin,omitempty"`
	ExecCommandEnd    *ExecCommandEndMsg    `json:"exec_command_end,omitempty"`
	PatchApplyBegin   *PatchApplyBeginMsg   `json:"patch_apply_begin,omitempty"`
	PatchApplyEnd     *PatchApplyEndMsg     `json:"patch_apply_end,omitempty"`
	McpToolCallBegin  *McpToolCallBeginMsg  `json:"mcp_tool_call_begin,omitempty"`
	McpToolCallEnd    *McpToolCallEndMsg    `json:"mcp_tool_call_end,omitempty"`
	ExecApprovalRequest *ExecApprovalRequestMsg `json:"exec_approval_request,omitempty"`
	ApplyPatchApprovalRequest *ApplyPatchApprovalRequestMsg `json:"apply_patch_approval_request,omitempty"`
	BackgroundEvent   *BackgroundEventMsg   `json:"background_event,omitempty"`
	StreamError       *StreamErrorMsg       `json:"stream_error,omitempty"`
	Error             *ErrorMsg             `json:"error,omitempty"`
	TurnAborted       *TurnAbortedMsg       `json:"turn_aborted,omitempty"`
}

type SessionConfiguredMsg struct {
	Model  string `json:"model"`
	Cwd    string `json:"cwd"`
}

type AgentMessageMsg struct {
	Text string `json:"text"`
}

type AgentMessageDeltaMsg struct {
	Delta string `json:"delta"`
}

type AgentReasoningMsg struct {
	Text string `json:"text"`
}

type AgentReasoningDeltaMsg struct {
	Delta string `json:"delta"`
}

type ExecCommandBeginMsg struct {
	CallID  string   `json:"call_id"`
	Command []string `json:"command"`
	Cwd     string   `json:"cwd"`
}

type ExecCommandEndMsg struct {
	CallID   string `json:"call_id"`
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	Duration int64  `json:"duration_ms"`
}

type PatchApplyBeginMsg struct {
	CallID string   `json:"call_id"`
	Paths  []string `json:"paths"`
}

type PatchApplyEndMsg struct {
	CallID  string `json:"call_id"`
	Success bool   `json:"success"`
	Stdout  string `json:"stdout"`
	Stderr  string `json:"stderr"`
}

type McpToolCallBeginMsg struct {
	CallID string `json:"call_id"`
	Server string `json:"server"`
	Tool   string `json:"tool"`
}

type McpToolCallEndMsg struct {
	CallID  string `json:"call_id"`
	Success bool   `json:"success"`
	Content string `json:"content"`
}

type ExecApprovalRequestMsg struct {
	ID      string   `json:"id"`
	CallID  string   `json:"call_id"`
	Command []string `json:"command"`
	Cwd     string   `json:"cwd"`
	Reason  string   `json:"reason,omitempty"`
}

type ApplyPatchApprovalRequestMsg struct {
	ID          string   `json:"id"`
	CallID      string   `json:"call_id"`
	Paths       []string `json:"paths"`
	GrantRoots  []string `json:"grant_roots,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

type BackgroundEventMsg struct {
	Text string `json:"text"`
}

type StreamErrorMsg struct {
	Text string `json:"text"`
}

type ErrorMsg struct {
	Text string `json:"text"`
}

type TurnAbortedMsg struct {
	Reason string `json:"reason"` // "interrupted" | "replaced"
}

// MarshalJSON encodes a Msg as its "type" tag plus the one populated
// payload under its own key (e.g. {"type":"error","error":{"text":...}});
// the payload is nested, not flattened into the top-level object.
func (m Msg) MarshalJSON() ([]byte, error) {
	type alias Msg
	return json.Marshal(alias(m))
}

// NewEvent builds an Event with the given submission id and populated msg.
func NewEvent(submissionID string, msg Msg) Event {
	return Event{ID: submissionID, Msg: msg}
}

// Validate reports an error when Type is SessionConfigured, AgentMessage,
// ExecCommandBegin or ExecCommandEnd and that type's payload field is nil,
// which would otherwise silently serialize an empty payload. Other types
// are not checked.
func (m Msg) Validate() error {
	switch m.Type {
	case MsgSessionConfigured:
		if m.SessionConfigured == nil {
			return fmt.Errorf("msg type %q missing payload", m.Type)
		}
	case MsgAgentMessage:
		if m.AgentMessage == nil {
			return fmt.Errorf("msg type %q missing payload", m.Type)
		}
	case MsgExecCommandBegin:
		if m.ExecCommandBegin == nil {
			return fmt.Errorf("msg type %q missing payload", m.Type)
		}
	case MsgExecCommandEnd:
		if m.ExecCommandEnd == nil {
			return fmt.Errorf("msg type %q missing payload", m.Type)
		}
	}
	return nil
}
