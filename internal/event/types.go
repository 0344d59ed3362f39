package event

import "github.com/agentcore/agentcore/pkg/types"

// FileEditedData is the data for file.edited events, published whenever
// the patch engine successfully writes a file to disk.
type FileEditedData struct {
	Path string `json:"path"`
}

// PermissionRequiredData is the data for permission.required events,
// published when the safety assessment returns AskUser and the
// orchestrator is about to block on an approval decision.
type PermissionRequiredData struct {
	RequestID string           `json:"requestID"`
	SessionID string           `json:"sessionID"`
	Kind      types.MsgType    `json:"kind"` // exec_approval_request | apply_patch_approval_request
	CallID    string           `json:"callID"`
}

// PermissionResolvedData is the data for permission.resolved events,
// published once a pending approval's one-shot channel has been fed a
// decision.
type PermissionResolvedData struct {
	RequestID string                  `json:"requestID"`
	Decision  types.ApprovalDecision  `json:"decision"`
}

// DoomLoopDetectedData is the data for doom_loop.detected events,
// published when the same tool call repeats past the configured
// threshold.
type DoomLoopDetectedData struct {
	SessionID string `json:"sessionID"`
	ToolName  string `json:"toolName"`
}

// ConfigRootsChangedData is the data for config.roots_changed events,
// published when a project's .agentcore/config.jsonc is edited on disk
// while a session is live, carrying the freshly reloaded sandbox's
// writable roots.
type ConfigRootsChangedData struct {
	Directory string   `json:"directory"`
	Roots     []string `json:"roots"`
}
