package types

import "errors"

// ErrInternalAgentDied is returned by Submit/NextEvent once the
// orchestrator's submission loop has exited, whether from a clean Shutdown
// or a fatal internal error. Every caller-facing entry point collapses to
// this one sentinel so callers don't need to distinguish why the loop is
// gone.
var ErrInternalAgentDied = errors.New("internal agent died")
