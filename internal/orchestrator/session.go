package orchestrator

import (
	"sync"

	"github.com/agentcore/agentcore/internal/config"
	"github.com/agentcore/agentcore/internal/event"
	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

// session is the live context a ConfigureSession submission establishes: a
// model client, the approval/sandbox policy governing the whole
// conversation, and the mutable state a running task reads and writes. A
// session hosts at most one running agentTask at a time; a fresh
// UserInput either feeds the running task or starts a new one.
type session struct {
	client   *modelclient.ModelClient
	ptyMgr   *ptyexec.Manager
	doomLoop *permission.DoomLoopDetector

	txEvent chan<- types.Event

	id             string
	model          string
	instructions   string
	approvalPolicy types.ApprovalPolicy
	sandboxPolicy  types.SandboxPolicy

	rootsMu      sync.Mutex
	roots        []types.WritableRoot
	rootsWatcher *config.RootsWatcher
	unwatchRoots func()

	mu sync.Mutex
	st *state
}

func newSession(id string, client *modelclient.ModelClient, ptyMgr *ptyexec.Manager, doomLoop *permission.DoomLoopDetector, txEvent chan<- types.Event, cfg types.ConfigureSessionOp, carried *state) *session {
	st := carried
	if st == nil {
		st = newState(cfg.DisableResponseStorage)
	}
	sess := &session{
		client:         client,
		ptyMgr:         ptyMgr,
		doomLoop:       doomLoop,
		txEvent:        txEvent,
		id:             id,
		model:          cfg.Model,
		instructions:   cfg.Instructions,
		approvalPolicy: cfg.ApprovalPolicy,
		sandboxPolicy:  cfg.SandboxPolicy,
		roots:          buildWritableRoots(cfg.SandboxPolicy),
		st:             st,
	}
	sess.watchApprovedRoots()
	return sess
}

// watchApprovedRoots starts a config.RootsWatcher on the first writable
// root's directory, when the policy has one, so edits to that project's
// .agentcore/config.jsonc made by hand while this session is live extend
// the roots the model is allowed to write under without
// requiring a fresh ConfigureSession. Any root the watcher reports that
// this session doesn't already have is granted the same way an approved
// patch extends roots.
func (s *session) watchApprovedRoots() {
	if len(s.roots) == 0 {
		return
	}
	directory := s.roots[0].Root

	watcher, err := config.NewRootsWatcher(directory)
	if err != nil || watcher == nil {
		return
	}
	watcher.Start()
	s.rootsWatcher = watcher

	s.unwatchRoots = event.Subscribe(event.ConfigRootsChanged, func(e event.Event) {
		d := e.Data.(event.ConfigRootsChangedData)
		if d.Directory != directory {
			return
		}
		s.reconcileRoots(d.Roots)
	})
}

// reconcileRoots grants any newly-listed root this session doesn't already
// have. It never revokes a root a running task may already be relying on.
func (s *session) reconcileRoots(roots []string) {
	existing := s.writableRoots()
	for _, r := range roots {
		covered := false
		for _, have := range existing {
			if have.Root == r {
				covered = true
				break
			}
		}
		if !covered {
			logging.Info().Str("root", r).Msg("granting writable root from project config change")
			s.grantWritableRoot(r)
		}
	}
}

// stopWatchingRoots tears down the session's config watcher and bus
// subscription, called once the session is replaced or its Codex shuts
// down.
func (s *session) stopWatchingRoots() {
	if s.unwatchRoots != nil {
		s.unwatchRoots()
		s.unwatchRoots = nil
	}
	if s.rootsWatcher != nil {
		_ = s.rootsWatcher.Stop()
		s.rootsWatcher = nil
	}
}

// --- permission.ApprovalPolicyGetter ---

func (s *session) ApprovalPolicy() types.ApprovalPolicy { return s.approvalPolicy }
func (s *session) SandboxPolicy() types.SandboxPolicy   { return s.sandboxPolicy }

func (s *session) IsCommandApproved(argv []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.approvedCommands[commandKey(argv)]
}

func (s *session) addApprovedCommand(argv []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.approvedCommands[commandKey(argv)] = true
}

// writableRoots returns a snapshot of the session's current writable
// roots, safe to range over without holding rootsMu.
func (s *session) writableRoots() []types.WritableRoot {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	return append([]types.WritableRoot(nil), s.roots...)
}

// grantWritableRoot extends the session's writable roots for the rest of
// its lifetime, used once the user approves a patch that reaches outside
// the configured sandbox.
func (s *session) grantWritableRoot(root string) {
	s.rootsMu.Lock()
	defer s.rootsMu.Unlock()
	s.roots = append(s.roots, types.WritableRoot{Root: root})
}

// --- task bookkeeping ---

func (s *session) setTask(task *agentTask) {
	s.mu.Lock()
	prev := s.st.currentTask
	s.st.currentTask = task
	s.mu.Unlock()
	if prev != nil {
		prev.abort()
	}
}

func (s *session) removeTask(subID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.currentTask != nil && s.st.currentTask.subID == subID {
		s.st.currentTask = nil
	}
}

// injectInput feeds items into the running task's mid-turn input queue.
// ok is false when there is no running task, in which case the caller
// should start a fresh one with items itself.
func (s *session) injectInput(items []types.ResponseItem) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.currentTask == nil {
		return false
	}
	s.st.pendingInput = append(s.st.pendingInput, items...)
	return true
}

func (s *session) takePendingInput() []types.ResponseItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.st.pendingInput) == 0 {
		return nil
	}
	items := s.st.pendingInput
	s.st.pendingInput = nil
	return items
}

func (s *session) previousResponseID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.previousResponseID, s.st.previousResponseID != ""
}

func (s *session) setPreviousResponseID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.previousResponseID = id
}

// zdrAppendAndSnapshot appends fresh to the ZDR transcript under the
// session lock and returns the full transcript including fresh, matching
// the Rust original's append-then-send-full-transcript ordering. The bool
// is false, and nothing is appended, when ZDR mode is off.
func (s *session) zdrAppendAndSnapshot(fresh []types.ResponseItem) ([]types.ResponseItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.zdrTranscript == nil {
		return nil, false
	}
	full := append(append([]types.ResponseItem(nil), s.st.zdrTranscript...), fresh...)
	s.st.zdrTranscript = append(s.st.zdrTranscript, fresh...)
	return full, true
}

func (s *session) zdrActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.zdrTranscript != nil
}

func (s *session) recordZdrItems(items []types.ResponseItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.zdrTranscript != nil {
		s.st.zdrTranscript = append(s.st.zdrTranscript, items...)
	}
}

// --- approvals ---

func (s *session) requestCommandApproval(subID, callID string, command []string, cwd string, reason string) <-chan types.ApprovalDecision {
	s.mu.Lock()
	pending := s.st.pendingApprovals
	s.mu.Unlock()

	ch := pending.Register(s.id, subID, types.MsgExecApprovalRequest, callID)
	s.send(types.NewEvent(subID, types.Msg{
		Type: types.MsgExecApprovalRequest,
		ExecApprovalRequest: &types.ExecApprovalRequestMsg{
			ID: subID, CallID: callID, Command: command, Cwd: cwd, Reason: reason,
		},
	}))
	return ch
}

func (s *session) requestPatchApproval(subID, callID string, paths []string, reason string, grantRoots []string) <-chan types.ApprovalDecision {
	s.mu.Lock()
	pending := s.st.pendingApprovals
	s.mu.Unlock()

	ch := pending.Register(s.id, subID, types.MsgApplyPatchApprovalRequest, callID)
	s.send(types.NewEvent(subID, types.Msg{
		Type: types.MsgApplyPatchApprovalRequest,
		ApplyPatchApprovalRequest: &types.ApplyPatchApprovalRequestMsg{
			ID: subID, CallID: callID, Paths: paths, GrantRoots: grantRoots, Reason: reason,
		},
	}))
	return ch
}

func (s *session) notifyApproval(requestID string, decision types.ApprovalDecision) {
	s.mu.Lock()
	pending := s.st.pendingApprovals
	s.mu.Unlock()
	pending.Deliver(requestID, decision)
}

// --- notifications ---

func (s *session) notifyExecCommandBegin(subID, callID string, command []string, cwd string) {
	s.send(types.NewEvent(subID, types.Msg{
		Type:             types.MsgExecCommandBegin,
		ExecCommandBegin: &types.ExecCommandBeginMsg{CallID: callID, Command: command, Cwd: cwd},
	}))
}

// maxStreamedOutput truncates streamed exec output to 5 KiB of characters,
// not bytes, so a truncation can never land in the middle of a multi-byte
// UTF-8 sequence.
const maxStreamedOutput = 5 * 1024

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func (s *session) notifyExecCommandEnd(subID, callID, stdout, stderr string, exitCode int) {
	s.send(types.NewEvent(subID, types.Msg{
		Type: types.MsgExecCommandEnd,
		ExecCommandEnd: &types.ExecCommandEndMsg{
			CallID:   callID,
			ExitCode: exitCode,
			Stdout:   truncateRunes(stdout, maxStreamedOutput),
			Stderr:   truncateRunes(stderr, maxStreamedOutput),
		},
	}))
}

func (s *session) notifyBackgroundEvent(subID, text string) {
	s.send(types.NewEvent(subID, types.Msg{
		Type:            types.MsgBackgroundEvent,
		BackgroundEvent: &types.BackgroundEventMsg{Text: text},
	}))
}

func (s *session) send(ev types.Event) {
	s.txEvent <- ev
}

// abort cancels any running task and drops every pending approval/input,
// matching a fresh Interrupt or a session replacement.
func (s *session) abort() {
	s.mu.Lock()
	task := s.st.currentTask
	s.st.currentTask = nil
	s.st.pendingInput = nil
	pending := s.st.pendingApprovals
	s.mu.Unlock()

	pending.DrainAll()
	if task != nil {
		task.abort()
	}
}
