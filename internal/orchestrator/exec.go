package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agentcore/agentcore/internal/classifier"
	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/patch"
	"github.com/agentcore/agentcore/internal/permission"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

const defaultExecTimeout = 60 * time.Second

// execArgs is the JSON shape of the shell tool's function-call arguments,
// matching modelclient's shellToolSchema.
type execArgs struct {
	Command []string `json:"command"`
	Workdir string   `json:"workdir"`
	Timeout float64  `json:"timeout"` // seconds
}

// handleFunctionCall dispatches one model-requested tool call: apply_patch
// invocations (bare or heredoc-wrapped) are routed to applyPatch, anything
// else named "shell" or "container.exec" runs through the PTY exec
// path, and any other tool name comes back as a structured failure so the
// model can adapt instead of the turn erroring out.
func handleFunctionCall(ctx context.Context, sess *session, subID, name, arguments, callID string) types.ResponseItem {
	switch name {
	case "container.exec", "shell":
		return handleExecCall(ctx, sess, subID, callID, arguments)
	default:
		return failureOutput(callID, fmt.Sprintf("unsupported call: %s", name), nil)
	}
}

func handleExecCall(ctx context.Context, sess *session, subID, callID, arguments string) types.ResponseItem {
	var args execArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return failureOutput(callID, fmt.Sprintf("failed to parse function arguments: %v", err), nil)
	}

	if body, ok, err := patch.DetectInvocation(args.Command); ok {
		if err != nil {
			return failureOutput(callID, fmt.Sprintf("error: %v", err), nil)
		}
		return applyPatch(ctx, sess, subID, callID, body)
	}

	workdir := args.Workdir
	if workdir == "" {
		if cwd, err := os.Getwd(); err == nil {
			workdir = cwd
		}
	}

	assessor := permission.NewAssessor(sess)
	outcome := assessor.AssessExec(args.Command)

	// A tool call repeating the exact same command three times running is
	// almost never intentional; escalate it to the user even under a
	// policy that would otherwise auto-approve it.
	if outcome.Kind == types.AssessmentAutoApprove && sess.doomLoop.Check(sess.id, "shell", args.Command) {
		logging.Warn().Str("session", sess.id).Strs("command", args.Command).Msg("doom loop detected, escalating exec to approval")
		sess.notifyBackgroundEvent(subID, "repeated identical command detected, asking for approval")
		outcome = types.AssessmentOutcome{Kind: types.AssessmentAskUser, Reason: "repeated identical command"}
	}

	logging.Debug().Str("session", sess.id).Str("call_id", callID).Str("assessment", string(outcome.Kind)).Msg("exec assessment decided")

	switch outcome.Kind {
	case types.AssessmentReject:
		logging.Warn().Str("call_id", callID).Str("reason", outcome.Reason).Msg("exec command rejected by policy")
		return failureOutput(callID, fmt.Sprintf("exec command rejected: %s", outcome.Reason), nil)

	case types.AssessmentAskUser:
		reason := outcome.Reason
		if reason == "" {
			reason = summarizeCommand(args.Command)
		}
		var decision types.ApprovalDecision
		select {
		case decision = <-sess.requestCommandApproval(subID, callID, args.Command, workdir, reason):
		case <-ctx.Done():
			return failureOutput(callID, "exec command aborted", nil)
		}
		switch decision {
		case types.DecisionApproved:
		case types.DecisionApprovedForSession:
			sess.addApprovedCommand(args.Command)
		default:
			return failureOutput(callID, "exec command rejected by user", nil)
		}
	}

	sess.notifyExecCommandBegin(subID, callID, args.Command, workdir)

	timeout := defaultExecTimeout
	if args.Timeout > 0 {
		timeout = time.Duration(args.Timeout * float64(time.Second))
	}

	out, err := sess.ptyMgr.ExecCommand(ptyexec.ExecParams{
		Cmd:             quoteArgv(args.Command),
		YieldTime:       timeout,
		MaxOutputTokens: 4000,
	})
	if err != nil {
		return failureOutput(callID, fmt.Sprintf("execution error: %v", err), nil)
	}

	exitCode := 0
	if out.Exit.Exited {
		exitCode = out.Exit.Code
	}
	sess.notifyExecCommandEnd(subID, callID, out.Text, "", exitCode)

	success := out.Exit.Exited && exitCode == 0
	content := formatExecOutput(out.Text, exitCode, out.WallTime)
	return types.NewFunctionCallOutput(callID, types.FunctionCallOutputPayload{Content: content, Success: &success})
}

// formatExecOutput renders one exec result as the small JSON envelope the
// model expects: the raw output plus exit code and wall time, rounded to
// one decimal place of seconds.
func formatExecOutput(output string, exitCode int, duration time.Duration) string {
	type metadata struct {
		ExitCode        int     `json:"exit_code"`
		DurationSeconds float64 `json:"duration_seconds"`
	}
	type envelope struct {
		Output   string   `json:"output"`
		Metadata metadata `json:"metadata"`
	}
	seconds := float64(int(duration.Seconds()*10+0.5)) / 10
	data, err := json.Marshal(envelope{Output: output, Metadata: metadata{ExitCode: exitCode, DurationSeconds: seconds}})
	if err != nil {
		return output
	}
	return string(data)
}

// summarizeCommand gives the approval prompt a human-legible gloss of what
// a shell invocation actually does, falling back to the raw command name
// when the classifier can't say anything more specific.
func summarizeCommand(argv []string) string {
	cmds := classifier.Classify(argv)
	if len(cmds) == 0 {
		return ""
	}
	switch c := cmds[0]; c.Kind {
	case classifier.KindRead:
		return "read " + c.Name
	case classifier.KindListFiles:
		return "list files in " + c.Path
	case classifier.KindSearch:
		return fmt.Sprintf("search for %q in %s", c.Query, c.Path)
	case classifier.KindFormat:
		return c.Tool + " format"
	case classifier.KindLint:
		return c.Tool + " lint"
	case classifier.KindTest:
		return "run tests"
	default:
		if len(c.Cmd) > 0 {
			return c.Cmd[0]
		}
		return ""
	}
}

func failureOutput(callID, content string, success *bool) types.ResponseItem {
	return types.NewFunctionCallOutput(callID, types.FunctionCallOutputPayload{Content: content, Success: success})
}

// quoteArgv joins argv into a single POSIX shell command line, single
// quoting each argument so the exec manager's "-lc" invocation sees them
// as distinct words regardless of embedded spaces or shell metacharacters.
func quoteArgv(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		parts[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(parts, " ")
}
