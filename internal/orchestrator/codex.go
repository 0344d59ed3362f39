package orchestrator

import (
	"context"

	"github.com/agentcore/agentcore/internal/history"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

const (
	submissionQueueDepth = 64
	eventQueueDepth      = 64
)

// Codex is the single entry point callers use to drive a conversation:
// Submit enqueues a command, NextEvent drains the resulting notifications.
// Both collapse a closed queue (the submission loop having exited, whether
// from a clean Shutdown or an unrecoverable internal error) to the same
// ErrInternalAgentDied sentinel.
type Codex struct {
	txSub chan types.Submission
	rxEvt chan types.Event

	subRecorder *history.Recorder
	evtRecorder *history.Recorder

	cancel context.CancelFunc
	done   chan struct{}
}

// Builder configures optional JSONL recording before spawning a Codex.
type Builder struct {
	recordSubmissionsPath string
	recordEventsPath      string
	ptyMgr                *ptyexec.Manager
	newClient             func(cfg types.Config, sessionCfg types.ConfigureSessionOp) *modelclient.ModelClient
}

// NewBuilder starts a Builder. newClient lets callers (or tests) control
// exactly how a ModelClient is constructed from a ConfigureSession op,
// since the provider/model mapping lives in the caller's resolved Config.
func NewBuilder(ptyMgr *ptyexec.Manager, newClient func(types.Config, types.ConfigureSessionOp) *modelclient.ModelClient) *Builder {
	return &Builder{ptyMgr: ptyMgr, newClient: newClient}
}

func (b *Builder) RecordSubmissions(path string) *Builder {
	b.recordSubmissionsPath = path
	return b
}

func (b *Builder) RecordEvents(path string) *Builder {
	b.recordEventsPath = path
	return b
}

// Spawn starts the submission loop in its own goroutine and returns a
// ready-to-use Codex. ctx governs the loop's entire lifetime: canceling it
// aborts any running task and causes the loop (and every subsequent
// Submit/NextEvent) to report ErrInternalAgentDied.
func (b *Builder) Spawn(ctx context.Context, cfg types.Config) (*Codex, error) {
	var subRecorder, evtRecorder *history.Recorder
	if b.recordSubmissionsPath != "" {
		r, err := history.NewRecorder(b.recordSubmissionsPath)
		if err != nil {
			return nil, err
		}
		subRecorder = r
	}
	if b.recordEventsPath != "" {
		r, err := history.NewRecorder(b.recordEventsPath)
		if err != nil {
			return nil, err
		}
		evtRecorder = r
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c := &Codex{
		txSub:       make(chan types.Submission, submissionQueueDepth),
		rxEvt:       make(chan types.Event, eventQueueDepth),
		subRecorder: subRecorder,
		evtRecorder: evtRecorder,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	doomLoop := permission.NewDoomLoopDetector()
	go func() {
		defer close(c.done)
		defer close(c.rxEvt)
		unsubscribe := subscribeDiagnostics(c.rxEvt)
		defer unsubscribe()
		runSubmissionLoop(loopCtx, c.txSub, c.rxEvt, b.ptyMgr, doomLoop, cfg, b.newClient)
	}()

	return c, nil
}

// Submit enqueues sub, recording it first if submission recording is
// enabled.
func (c *Codex) Submit(ctx context.Context, sub types.Submission) error {
	if c.subRecorder != nil {
		_ = c.subRecorder.RecordSubmission(sub)
	}
	// Checked first because txSub is buffered: once the loop has exited the
	// send below could still succeed and silently drop sub.
	select {
	case <-c.done:
		return types.ErrInternalAgentDied
	default:
	}
	select {
	case c.txSub <- sub:
		return nil
	case <-c.done:
		return types.ErrInternalAgentDied
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextEvent blocks until an event is available, recording it first if
// event recording is enabled.
func (c *Codex) NextEvent(ctx context.Context) (types.Event, error) {
	select {
	case ev, ok := <-c.rxEvt:
		if !ok {
			return types.Event{}, types.ErrInternalAgentDied
		}
		if c.evtRecorder != nil {
			_ = c.evtRecorder.RecordEvent(ev)
		}
		return ev, nil
	case <-ctx.Done():
		return types.Event{}, ctx.Err()
	}
}

// Close stops the submission loop and releases any recorder file handles.
func (c *Codex) Close() {
	c.cancel()
	<-c.done
	if c.subRecorder != nil {
		c.subRecorder.Close()
	}
	if c.evtRecorder != nil {
		c.evtRecorder.Close()
	}
}
