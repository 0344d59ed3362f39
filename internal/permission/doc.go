// Package permission implements the safety assessment and approval flow
// that gates tool execution during a turn: for each shell invocation and
// each patch action it decides whether to run automatically or ask the
// user; neither assessment returns the Reject outcome kind.
//
// # Overview
//
// Two inputs drive every decision: the session's current ApprovalPolicy
// ("untrusted", "on-failure", "on-request", "never") and its
// SandboxPolicy ("danger-full-access", "read-only", "workspace-write").
// Assessor.AssessExec combines these with bash-grammar parsing of the
// command to produce a types.AssessmentOutcome: AutoApprove (carrying the
// sandbox to run under) or AskUser. AssessPatchPaths applies the same
// two outcomes to the set of paths a patch would touch, using the
// first-offending-path rule against the session's writable roots. Neither
// function ever returns types.AssessmentReject.
//
// # Bash Command Parsing
//
// ParseBashCommand uses mvdan.cc/sh's bash grammar to extract structured
// commands from a shell string:
//
//	commands, err := ParseBashCommand("git commit -m 'fix bug'")
//	// Returns: BashCommand{Name: "git", Subcommand: "commit", Args: ["commit", "-m", "fix bug"]}
//
// parseArgv additionally recognizes the `shell -lc script` /
// `shell -c script` wrapper a model commonly emits and parses the script
// body instead of treating "-lc" itself as the command.
//
// # Pattern Matching
//
// MatchPattern and BuildPattern support "approved for session" decisions:
// once a user approves a command family, BuildPattern turns the parsed
// command into a reusable pattern ("git commit *", "ls *") that
// IsCommandApproved can match against future invocations without asking
// again.
//
// # Doom Loop Detection
//
// DoomLoopDetector tracks repeated identical tool calls per session and
// reports a loop once the same call has been seen DoomLoopThreshold times
// in a row, independent of the approval flow above.
//
//	detector := NewDoomLoopDetector()
//	if detector.Check(sessionID, "shell", callInput) {
//		// emit a doom_loop diagnostic event
//	}
//
// # Approval Flow
//
// PendingApprovals tracks the one-shot reply channel for each outstanding
// ExecApprovalRequest or ApplyPatchApprovalRequest, keyed by request id.
// Register opens the channel and publishes a permission.required event;
// Deliver feeds the user's decision into it and publishes
// permission.resolved; Drop discards one pending request and DrainAll
// every pending request, both without a decision. A session abort
// (Interrupt, Shutdown, session replacement) calls DrainAll. Each
// request is removed from the tracker by exactly one of these three
// paths.
//
// # Thread Safety
//
// Assessor is stateless aside from its ApprovalPolicyGetter and is safe
// for concurrent use across sessions. PendingApprovals and
// DoomLoopDetector guard their internal maps with a mutex and are safe
// for concurrent use across goroutines handling different sessions.
package permission
