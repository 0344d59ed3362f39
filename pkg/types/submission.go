package types

import (
	"encoding/json"
	"fmt"
)

// OpType names a Submission's tagged Op variant.
type OpType string

const (
	OpConfigureSession OpType = "configure_session"
	OpUserInput        OpType = "user_input"
	OpExecApproval     OpType = "exec_approval"
	OpPatchApproval    OpType = "patch_approval"
	OpInterrupt        OpType = "interrupt"
	OpShutdown         OpType = "shutdown"
)

// Submission is one externally generated command fed into the
// orchestrator's inbound queue.
type Submission struct {
	ID string `json:"id"`
	Op Op     `json:"op"`
}

// Op is the tagged union of a Submission's operation. Exactly one typed
// field is populated, selected by Type.
type Op struct {
	Type OpType `json:"type"`

	ConfigureSession *ConfigureSessionOp `json:"configure_session,omitempty"`
	UserInput        *UserInputOp        `json:"user_input,omitempty"`
	ExecApproval     *ExecApprovalOp     `json:"exec_approval,omitempty"`
	PatchApproval    *PatchApprovalOp    `json:"patch_approval,omitempty"`
}

// ConfigureSessionOp must be the first submission of a session's lifetime.
type ConfigureSessionOp struct {
	Model                  string        `json:"model"`
	Instructions           string        `json:"instructions,omitempty"`
	ApprovalPolicy         ApprovalPolicy `json:"approval_policy"`
	SandboxPolicy          SandboxPolicy  `json:"sandbox_policy"`
	DisableResponseStorage bool           `json:"disable_response_storage"`
}

// UserInputOp enqueues a user message, or injects it into a running turn
// when one is already in flight.
type UserInputOp struct {
	Items []InputItem `json:"items"`
}

// ExecApprovalOp carries the user's decision for a prior ExecApprovalRequest.
type ExecApprovalOp struct {
	ID       string           `json:"id"`
	Decision ApprovalDecision `json:"decision"`
}

// PatchApprovalOp carries the user's decision for a prior
// ApplyPatchApprovalRequest.
type PatchApprovalOp struct {
	ID       string           `json:"id"`
	Decision ApprovalDecision `json:"decision"`
}

// NewConfigureSession builds a ConfigureSession submission with a fresh id.
func NewConfigureSession(op ConfigureSessionOp) Submission {
	return Submission{ID: NewID(), Op: Op{Type: OpConfigureSession, ConfigureSession: &op}}
}

// NewUserInput builds a UserInput submission with a fresh id.
func NewUserInput(items []InputItem) Submission {
	return Submission{ID: NewID(), Op: Op{Type: OpUserInput, UserInput: &UserInputOp{Items: items}}}
}

// NewInterrupt builds an Interrupt submission with a fresh id.
func NewInterrupt() Submission {
	return Submission{ID: NewID(), Op: Op{Type: OpInterrupt}}
}

// NewShutdown builds a Shutdown submission with a fresh id.
func NewShutdown() Submission {
	return Submission{ID: NewID(), Op: Op{Type: OpShutdown}}
}

// userInputOpJSON mirrors UserInputOp but carries raw InputItem payloads so
// json.Marshal/Unmarshal can dispatch through MarshalInputItem /
// UnmarshalInputItem, since InputItem is an interface.
type userInputOpJSON struct {
	Items []json.RawMessage `json:"items"`
}

// MarshalJSON renders UserInputOp's polymorphic Items via
// MarshalInputItem, since encoding/json cannot do so for an interface
// field on its own.
func (u UserInputOp) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(u.Items))
	for _, item := range u.Items {
		b, err := MarshalInputItem(item)
		if err != nil {
			return nil, err
		}
		raw = append(raw, b)
	}
	return json.Marshal(userInputOpJSON{Items: raw})
}

// UnmarshalJSON parses UserInputOp's polymorphic Items via
// UnmarshalInputItem.
func (u *UserInputOp) UnmarshalJSON(data []byte) error {
	var raw userInputOpJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal user_input op: %w", err)
	}
	items := make([]InputItem, 0, len(raw.Items))
	for _, r := range raw.Items {
		item, err := UnmarshalInputItem(r)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	u.Items = items
	return nil
}
