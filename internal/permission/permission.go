// Package permission implements the safety assessment that decides,
// for each tool call and each patch action, whether to run it
// automatically or ask the user.
package permission

import (
	"strings"

	"github.com/agentcore/agentcore/pkg/types"
)

// knownSafeCommands are read-only commands the UnlessTrusted policy will
// auto-approve without asking, mirroring the classifier's Read/ListFiles/
// Search taxonomy for the most common tools.
var knownSafeCommands = map[string]bool{
	"ls": true, "cat": true, "head": true, "tail": true, "nl": true,
	"pwd": true, "echo": true, "true": true, "wc": true,
	"grep": true, "rg": true, "fd": true, "find": true,
	"git": true, // only safe for read subcommands; see isSafeGitInvocation
}

var safeGitSubcommands = map[string]bool{
	"status": true, "log": true, "diff": true, "show": true, "branch": true,
}

// Assessor evaluates exec requests against an ApprovalPolicy, a
// SandboxPolicy, and a per-session cache of already-approved argv vectors.
type Assessor struct {
	session ApprovalPolicyGetter
}

// ApprovalPolicyGetter is implemented by the orchestrator's session state
// so the assessor always reads the live policy instead of a stale copy.
type ApprovalPolicyGetter interface {
	ApprovalPolicy() types.ApprovalPolicy
	SandboxPolicy() types.SandboxPolicy
	IsCommandApproved(argv []string) bool
}

// NewAssessor builds an Assessor reading policy from the given session.
func NewAssessor(session ApprovalPolicyGetter) *Assessor {
	return &Assessor{session: session}
}

// AssessExec decides how to handle one shell invocation.
func (a *Assessor) AssessExec(argv []string) types.AssessmentOutcome {
	if a.session.IsCommandApproved(argv) {
		return autoApprove(a.session.SandboxPolicy())
	}

	policy := a.session.ApprovalPolicy()
	commands, err := parseArgv(argv)
	if err != nil {
		return types.AssessmentOutcome{
			Kind:   types.AssessmentAskUser,
			Reason: "could not parse command: " + err.Error(),
		}
	}

	switch policy {
	case types.ApprovalNever:
		return autoApprove(a.session.SandboxPolicy())

	case types.ApprovalOnFailure:
		return autoApprove(a.session.SandboxPolicy())

	case types.ApprovalUnlessTrusted:
		if allSafeReadOnly(commands) {
			return autoApprove(types.SandboxPolicy{Kind: types.SandboxPolicyReadOnly})
		}
		return types.AssessmentOutcome{Kind: types.AssessmentAskUser}

	case types.ApprovalOnRequest:
		if anyDangerous(commands) {
			return types.AssessmentOutcome{Kind: types.AssessmentAskUser}
		}
		return autoApprove(a.session.SandboxPolicy())

	default:
		return types.AssessmentOutcome{Kind: types.AssessmentAskUser}
	}
}

func autoApprove(sb types.SandboxPolicy) types.AssessmentOutcome {
	sandboxType := types.SandboxNone
	switch sb.Kind {
	case types.SandboxPolicyReadOnly:
		sandboxType = types.SandboxReadOnly
	case types.SandboxPolicyWorkspaceWrite:
		sandboxType = types.SandboxWorkspaceWrite
	case types.SandboxPolicyDangerFullAccess:
		sandboxType = types.SandboxNone
	}
	return types.AssessmentOutcome{Kind: types.AssessmentAutoApprove, SandboxType: sandboxType}
}

func parseArgv(argv []string) ([]BashCommand, error) {
	if len(argv) == 0 {
		return nil, nil
	}
	if len(argv) == 3 && (argv[1] == "-lc" || argv[1] == "-c") {
		return ParseBashCommand(argv[2])
	}
	// A bare argv not wrapped in a shell invocation is a single command.
	cmd := BashCommand{Name: argv[0]}
	if len(argv) > 1 {
		cmd.Args = argv[1:]
		for _, arg := range argv[1:] {
			if !strings.HasPrefix(arg, "-") {
				cmd.Subcommand = arg
				break
			}
		}
	}
	return []BashCommand{cmd}, nil
}

func allSafeReadOnly(commands []BashCommand) bool {
	if len(commands) == 0 {
		return false
	}
	for _, c := range commands {
		if !knownSafeCommands[c.Name] {
			return false
		}
		if c.Name == "git" && !safeGitSubcommands[c.Subcommand] {
			return false
		}
	}
	return true
}

func anyDangerous(commands []BashCommand) bool {
	for _, c := range commands {
		if IsDangerousCommand(c.Name) {
			return true
		}
	}
	return false
}
