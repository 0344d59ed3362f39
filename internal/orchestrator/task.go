package orchestrator

import (
	"context"
	"sync"

	"github.com/agentcore/agentcore/pkg/types"
)

// agentTask is one run of the turn loop in response to a UserInput
// submission. A session hosts at most one at a time; starting a new one
// (or replacing the session outright) aborts whatever task is already
// running.
type agentTask struct {
	sess   *session
	subID  string
	cancel context.CancelFunc

	mu       sync.Mutex
	finished bool
}

// spawnTask starts run_task in its own goroutine, returning a handle that
// can abort it. ctx is derived from parent so a session-wide cancellation
// (e.g. process shutdown) also tears down the task.
func spawnTask(parent context.Context, sess *session, subID string, input []types.ResponseItem) *agentTask {
	ctx, cancel := context.WithCancel(parent)
	task := &agentTask{sess: sess, subID: subID, cancel: cancel}
	go func() {
		runTask(ctx, sess, subID, input)
		task.mu.Lock()
		task.finished = true
		task.mu.Unlock()
	}()
	return task
}

// abort cancels the task's context and, if it had not already finished on
// its own, emits an Error event so the caller learns the turn was cut
// short instead of silently dropped. Idempotent: a second call observes
// finished already true (either from completion or a prior abort's own
// cancellation) and sends nothing further.
func (t *agentTask) abort() {
	t.mu.Lock()
	alreadyFinished := t.finished
	t.finished = true
	t.mu.Unlock()

	t.cancel()

	if alreadyFinished {
		return
	}
	go func() {
		t.sess.send(types.NewEvent(t.subID, types.Msg{
			Type:  types.MsgError,
			Error: &types.ErrorMsg{Text: "Turn interrupted"},
		}))
	}()
}
