// Package history provides append-only JSONL recording of a session's
// submissions and events, for audit and offline replay.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/agentcore/agentcore/pkg/types"
)

// Recorder appends one JSON document per line to a file, guarding
// concurrent writers across processes with flock the same way
// internal/storage guards its atomic writes.
type Recorder struct {
	mu   sync.Mutex
	file *os.File
}

// NewRecorder opens (creating if necessary) the JSONL file at path for
// appending.
func NewRecorder(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open history file %s: %w", path, err)
	}

	return &Recorder{file: f}, nil
}

// RecordSubmission appends one Submission as a JSON line.
func (r *Recorder) RecordSubmission(sub types.Submission) error {
	return r.appendLine(sub)
}

// RecordEvent appends one Event as a JSON line.
func (r *Recorder) RecordEvent(ev types.Event) error {
	return r.appendLine(ev)
}

func (r *Recorder) appendLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := syscall.Flock(int(r.file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock history file: %w", err)
	}
	defer syscall.Flock(int(r.file.Fd()), syscall.LOCK_UN)

	if _, err := r.file.Write(data); err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
