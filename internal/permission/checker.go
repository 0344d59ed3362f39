package permission

import (
	"sync"

	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/pkg/types"
)

// PendingApprovals tracks one-shot reply channels for in-flight
// ExecApprovalRequest / ApplyPatchApprovalRequest events, keyed by the
// submission id that will carry the user's decision. Entries are removed
// on exactly one of: decision delivery, task abort, or session drop.
type PendingApprovals struct {
	mu      sync.Mutex
	pending map[string]chan types.ApprovalDecision
}

// NewPendingApprovals creates an empty approval tracker.
func NewPendingApprovals() *PendingApprovals {
	return &PendingApprovals{pending: make(map[string]chan types.ApprovalDecision)}
}

// Register opens a one-shot channel for requestID and publishes a
// permission.required diagnostic event. The returned channel receives
// exactly one decision.
func (p *PendingApprovals) Register(sessionID, requestID string, kind types.MsgType, callID string) <-chan types.ApprovalDecision {
	ch := make(chan types.ApprovalDecision, 1)

	p.mu.Lock()
	p.pending[requestID] = ch
	p.mu.Unlock()

	event.Publish(event.Event{
		Type: event.PermissionRequired,
		Data: event.PermissionRequiredData{
			RequestID: requestID,
			SessionID: sessionID,
			Kind:      kind,
			CallID:    callID,
		},
	})

	return ch
}

// Deliver feeds a decision to the pending channel for requestID, removing
// it from the tracker. Reports false if no such request is pending (it may
// have already been delivered, aborted, or dropped).
func (p *PendingApprovals) Deliver(requestID string, decision types.ApprovalDecision) bool {
	p.mu.Lock()
	ch, ok := p.pending[requestID]
	if ok {
		delete(p.pending, requestID)
	}
	p.mu.Unlock()

	if !ok {
		return false
	}

	ch <- decision
	event.Publish(event.Event{
		Type: event.PermissionResolved,
		Data: event.PermissionResolvedData{RequestID: requestID, Decision: decision},
	})
	return true
}

// Drop removes a pending request without delivering a decision, used when
// a task is aborted or a session is replaced while an approval is
// outstanding.
func (p *PendingApprovals) Drop(requestID string) {
	p.mu.Lock()
	delete(p.pending, requestID)
	p.mu.Unlock()
}

// DrainAll drops every pending request, used on Interrupt and Shutdown.
func (p *PendingApprovals) DrainAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id := range p.pending {
		delete(p.pending, id)
	}
}
