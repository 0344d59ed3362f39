package ptyexec

import (
	"fmt"
	"sync"
	"time"
)

const subscriberBuffer = 256

// Manager owns every live PTY session, keyed by SessionID. Operations on
// the map are serialized by mu; each session's own reader/writer/waiter
// goroutines run independently of the manager and of each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[SessionID]*session
	nextID   SessionID
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[SessionID]*session)}
}

// ExecCommand allocates a fresh session, spawns shell [-lc|-c] cmd inside a
// PTY, and collects its combined output until the process exits (plus a
// short grace period) or YieldTime elapses, whichever comes first.
func (m *Manager) ExecCommand(params ExecParams) (Output, error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.mu.Unlock()

	sess, err := spawnSession(id, params)
	if err != nil {
		return Output{}, fmt.Errorf("failed to create exec command session for session id %d: %w", id, err)
	}

	// Subscribe before inserting into the map so the first bytes produced
	// right after spawn are never missed by a concurrent reader.
	subID, sub := sess.broadcast.subscribe(subscriberBuffer)

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	start := time.Now()
	deadline := start.Add(params.YieldTime)
	collected, exitCode := collectWithExit(sub, sess.exitCh, deadline)
	sess.broadcast.unsubscribe(subID)

	wallTime := time.Since(start)
	out := Output{WallTime: wallTime}
	if exitCode != nil {
		out.Exit = ExitStatus{Exited: true, Code: *exitCode}
	} else {
		out.Exit = ExitStatus{Exited: false, SessionID: id}
	}

	capBytes := capBytesFor(params.MaxOutputTokens)
	text, origTokens := truncateMiddle(string(collected), capBytes)
	out.Text = text
	if origTokens > 0 {
		out.Truncated = true
		out.OriginalTokenCount = origTokens
	}
	return out, nil
}

// WriteStdin forwards chars to session id's stdin, then collects output
// for YieldTime, leaving the session running (status remains Ongoing).
func (m *Manager) WriteStdin(params WriteStdinParams) (Output, error) {
	m.mu.Lock()
	sess, ok := m.sessions[params.SessionID]
	m.mu.Unlock()
	if !ok {
		return Output{}, fmt.Errorf("unknown session id %d", params.SessionID)
	}

	subID, sub := sess.broadcast.subscribe(subscriberBuffer)
	defer sess.broadcast.unsubscribe(subID)

	if params.Chars != "" && !sess.writeStdin([]byte(params.Chars)) {
		return Output{}, fmt.Errorf("failed to write to stdin")
	}

	start := time.Now()
	deadline := start.Add(params.YieldTime)
	collected := collectPlain(sub, deadline)

	capBytes := capBytesFor(params.MaxOutputTokens)
	text, origTokens := truncateMiddle(string(collected), capBytes)
	out := Output{
		WallTime: time.Since(start),
		Exit:     ExitStatus{Exited: false, SessionID: params.SessionID},
		Text:     text,
	}
	if origTokens > 0 {
		out.Truncated = true
		out.OriginalTokenCount = origTokens
	}
	return out, nil
}

// Kill terminates a session's process group, first with SIGTERM, then
// SIGKILL if it hasn't exited after a short grace period.
func (m *Manager) Kill(id SessionID) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session id %d", id)
	}
	sess.kill()
	return nil
}

// Remove drops a session from the map and releases its resources. Callers
// should only do this once they're certain the session is no longer
// needed (the process has exited, or is being abandoned on interrupt).
func (m *Manager) Remove(id SessionID) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		sess.close()
	}
}

func capBytesFor(maxOutputTokens uint64) int {
	capU64 := maxOutputTokens * 4
	if capU64 > uint64(^uint(0)>>1) {
		return int(^uint(0) >> 1)
	}
	return int(capU64)
}

// collectWithExit drains sub until deadline, or until exitCh fires, in
// which case it keeps draining for a further 25ms grace period to pick up
// anything still buffered before returning.
func collectWithExit(sub <-chan []byte, exitCh <-chan int, deadline time.Time) ([]byte, *int) {
	var collected []byte
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return collected, nil
		}
		select {
		case code := <-exitCh:
			c := code
			drainGrace(sub, &collected, 25*time.Millisecond)
			return collected, &c
		case chunk, ok := <-sub:
			if !ok {
				return collected, nil
			}
			collected = append(collected, chunk...)
		case <-time.After(remaining):
			return collected, nil
		}
	}
}

func drainGrace(sub <-chan []byte, collected *[]byte, grace time.Duration) {
	graceDeadline := time.Now().Add(grace)
	for {
		remaining := time.Until(graceDeadline)
		if remaining <= 0 {
			return
		}
		select {
		case chunk, ok := <-sub:
			if !ok {
				return
			}
			*collected = append(*collected, chunk...)
		case <-time.After(remaining):
			return
		}
	}
}

// collectPlain drains sub until deadline, with no exit-signal awareness —
// used by WriteStdin, where the session is known to already be alive.
func collectPlain(sub <-chan []byte, deadline time.Time) []byte {
	var collected []byte
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return collected
		}
		select {
		case chunk, ok := <-sub:
			if !ok {
				return collected
			}
			collected = append(collected, chunk...)
		case <-time.After(remaining):
			return collected
		}
	}
}
