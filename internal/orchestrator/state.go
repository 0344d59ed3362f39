package orchestrator

import (
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/pkg/types"
)

// state is the mutable part of a Session, guarded by Session.mu. A field's
// zero value always means "nothing yet" so a fresh State (or one built by
// partialClone) never needs separate initialization.
type state struct {
	approvedCommands map[string]bool
	currentTask       *agentTask
	previousResponseID string
	pendingApprovals  *permission.PendingApprovals
	pendingInput      []types.ResponseItem
	// zdrTranscript, when non-nil, accumulates every turn's input items so
	// the full conversation can be replayed on each request instead of
	// relying on the provider's server-side response storage.
	zdrTranscript []types.ResponseItem
}

func newState(disableResponseStorage bool) *state {
	s := &state{
		approvedCommands: make(map[string]bool),
		pendingApprovals:  permission.NewPendingApprovals(),
	}
	if disableResponseStorage {
		s.zdrTranscript = []types.ResponseItem{}
	}
	return s
}

// partialClone carries over only the pieces of state that should survive a
// ConfigureSession replacing the active session mid-conversation: approved
// commands, the provider's previous_response_id, and the ZDR transcript (if
// any). Everything else — pending approvals, pending input, the running
// task — resets, since it belongs to the session being replaced.
func (s *state) partialClone() *state {
	approved := make(map[string]bool, len(s.approvedCommands))
	for k, v := range s.approvedCommands {
		approved[k] = v
	}
	var transcript []types.ResponseItem
	if s.zdrTranscript != nil {
		transcript = append([]types.ResponseItem(nil), s.zdrTranscript...)
	}
	return &state{
		approvedCommands:    approved,
		previousResponseID:  s.previousResponseID,
		zdrTranscript:       transcript,
		pendingApprovals:    permission.NewPendingApprovals(),
	}
}

func commandKey(argv []string) string {
	key := ""
	for _, a := range argv {
		key += a + "\x00"
	}
	return key
}
