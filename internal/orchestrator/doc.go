// Package orchestrator drives one agent conversation end to end: it owns
// the submission/event queue pair, the per-session approval and sandbox
// state, and the turn loop that streams a prompt from internal/modelclient,
// dispatches any tool calls the model requests (shell execution via
// internal/ptyexec, patch application via internal/patch), and feeds the
// results back for the next turn.
//
// Callers interact with exactly one type, Codex: Submit enqueues a command,
// NextEvent drains the outbound notification stream. Everything else —
// Session, State, AgentTask — is internal bookkeeping the submission loop
// uses to get there.
package orchestrator
