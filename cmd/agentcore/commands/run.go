package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcore/agentcore/internal/config"
	"github.com/agentcore/agentcore/internal/modelclient"
	"github.com/agentcore/agentcore/internal/orchestrator"
	"github.com/agentcore/agentcore/internal/ptyexec"
	"github.com/agentcore/agentcore/pkg/types"
)

var (
	runWorkDir     string
	runStdin       bool
	runAutoApprove bool
	runTimeout     string
	runContinue    bool
	runAgent       string
)

var runCmd = &cobra.Command{
	Use:   "run [prompt...]",
	Short: "Run a single prompt to completion and print the resulting events",
	Long: `Run executes one prompt non-interactively: it configures a session from
the resolved configuration, submits the prompt, and streams the resulting
events to stdout until the task completes.

Examples:
  agentcore run "fix the failing test in ./internal/foo"
  echo "add a changelog entry" | agentcore run --stdin
  agentcore run --yolo "refactor the parser"`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runWorkDir, "workdir", "w", "", "Working directory (defaults to cwd)")
	runCmd.Flags().BoolVar(&runStdin, "stdin", false, "Read the prompt from stdin")
	runCmd.Flags().BoolVar(&runAutoApprove, "auto-approve", false, "Approve every exec/patch request automatically")
	runCmd.Flags().BoolVar(&runAutoApprove, "yolo", false, "Alias for --auto-approve")
	runCmd.Flags().StringVarP(&runTimeout, "timeout", "t", "30m", "Maximum time to wait for the task to complete")
	runCmd.Flags().BoolVarP(&runContinue, "continue", "c", false, "Remind the model of the previous run's exchange in this directory")
	runCmd.Flags().StringVar(&runAgent, "agent", "", "Load a named agent profile from .agentcore/agents/<name>.md")
}

func runRun(cmd *cobra.Command, args []string) error {
	workDir, err := GetWorkDir(runWorkDir)
	if err != nil {
		return err
	}

	timeout, err := time.ParseDuration(runTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	prompt := strings.Join(args, " ")
	if runStdin {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return fmt.Errorf("prompt required: provide it as an argument or via --stdin")
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if model := GetGlobalModel(); model != "" {
		cfg.Model = model
	}

	if runAgent != "" {
		profile, err := config.LoadAgentProfile(workDir, runAgent)
		if err != nil {
			return fmt.Errorf("load agent profile: %w", err)
		}
		config.ApplyAgentProfile(cfg, profile)
	}

	if runContinue {
		if prior, ok := loadLastExchange(cmd.Context(), workDir); ok {
			reminder := fmt.Sprintf("Earlier in this directory you were asked:\n%s\nAnd you answered:\n%s\n\n", prior.Prompt, prior.Response)
			cfg.Instructions = reminder + cfg.Instructions
		}
	}

	builder := orchestrator.NewBuilder(ptyexec.NewManager(), newModelClient)
	if cfg.RecordSubmissionsPath != "" {
		builder = builder.RecordSubmissions(cfg.RecordSubmissionsPath)
	}
	if cfg.RecordEventsPath != "" {
		builder = builder.RecordEvents(cfg.RecordEventsPath)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	codex, err := builder.Spawn(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer codex.Close()

	if err := codex.Submit(ctx, types.NewConfigureSession(types.ConfigureSessionOp{
		Model:                  cfg.Model,
		Instructions:           cfg.Instructions,
		ApprovalPolicy:         cfg.ApprovalPolicy,
		SandboxPolicy:          cfg.SandboxPolicy,
		DisableResponseStorage: cfg.DisableResponseStorage,
	})); err != nil {
		return fmt.Errorf("configure session: %w", err)
	}

	if err := codex.Submit(ctx, types.NewUserInput([]types.InputItem{types.TextInput{Text: prompt}})); err != nil {
		return fmt.Errorf("submit prompt: %w", err)
	}

	response, err := drainEvents(ctx, codex, os.Stdout)
	if err != nil {
		return err
	}
	if response != "" {
		if err := saveLastExchange(cmd.Context(), workDir, lastExchange{Prompt: prompt, Response: response}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save session exchange: %v\n", err)
		}
	}
	return nil
}

// newModelClient resolves cfg's configured provider and builds the model
// client a freshly spawned session streams through.
func newModelClient(cfg types.Config, sessionCfg types.ConfigureSessionOp) *modelclient.ModelClient {
	providerName := cfg.Provider
	if providerName == "" {
		providerName = "openai"
	}
	provider := cfg.Providers[providerName]
	model := sessionCfg.Model
	if model == "" {
		model = cfg.Model
	}
	return modelclient.NewClient(model, providerName, provider, cfg, "")
}

// drainEvents reads events off codex until the task completes, the session
// shuts down, or the agent dies, printing a human-readable line per event
// and auto-approving or prompting on stdin for each approval request. It
// returns the last agent message seen, for --continue to remember.
func drainEvents(ctx context.Context, codex *orchestrator.Codex, out io.Writer) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	var lastMessage string
	for {
		ev, err := codex.NextEvent(ctx)
		if err != nil {
			if err == types.ErrInternalAgentDied {
				return lastMessage, nil
			}
			return lastMessage, err
		}

		switch ev.Msg.Type {
		case types.MsgAgentMessage:
			lastMessage = ev.Msg.AgentMessage.Text
			fmt.Fprintln(out, ev.Msg.AgentMessage.Text)
		case types.MsgAgentReasoning:
			fmt.Fprintf(out, "(reasoning) %s\n", ev.Msg.AgentReasoning.Text)
		case types.MsgExecCommandBegin:
			fmt.Fprintf(out, "$ %s\n", strings.Join(ev.Msg.ExecCommandBegin.Command, " "))
		case types.MsgExecCommandEnd:
			end := ev.Msg.ExecCommandEnd
			if end.ExitCode != 0 {
				fmt.Fprintf(out, "(exit %d)\n", end.ExitCode)
			}
		case types.MsgPatchApplyBegin:
			fmt.Fprintf(out, "patch: %s\n", strings.Join(ev.Msg.PatchApplyBegin.Paths, ", "))
		case types.MsgExecApprovalRequest:
			req := ev.Msg.ExecApprovalRequest
			decision := decideApproval(reader, out, req.ID,
				fmt.Sprintf("run `%s`%s?", strings.Join(req.Command, " "), reasonSuffix(req.Reason)))
			if err := codex.Submit(ctx, types.Submission{ID: types.NewID(), Op: types.Op{
				Type:         types.OpExecApproval,
				ExecApproval: &types.ExecApprovalOp{ID: req.ID, Decision: decision},
			}}); err != nil {
				return lastMessage, err
			}
		case types.MsgApplyPatchApprovalRequest:
			req := ev.Msg.ApplyPatchApprovalRequest
			decision := decideApproval(reader, out, req.ID,
				fmt.Sprintf("apply patch to %s%s?", strings.Join(req.Paths, ", "), reasonSuffix(req.Reason)))
			if err := codex.Submit(ctx, types.Submission{ID: types.NewID(), Op: types.Op{
				Type:          types.OpPatchApproval,
				PatchApproval: &types.PatchApprovalOp{ID: req.ID, Decision: decision},
			}}); err != nil {
				return lastMessage, err
			}
		case types.MsgBackgroundEvent:
			fmt.Fprintf(out, "(info) %s\n", ev.Msg.BackgroundEvent.Text)
		case types.MsgStreamError:
			fmt.Fprintf(out, "(stream error) %s\n", ev.Msg.StreamError.Text)
		case types.MsgError:
			fmt.Fprintf(out, "(error) %s\n", ev.Msg.Error.Text)
		case types.MsgTurnAborted:
			fmt.Fprintf(out, "(turn aborted: %s)\n", ev.Msg.TurnAborted.Reason)
		case types.MsgTaskComplete:
			return lastMessage, nil
		case types.MsgShutdownComplete:
			return lastMessage, nil
		}
	}
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return " (" + reason + ")"
}

// decideApproval auto-approves when runAutoApprove is set, otherwise
// prompts the user on stdin for a yes/no answer.
func decideApproval(reader *bufio.Reader, out io.Writer, requestID, prompt string) types.ApprovalDecision {
	if runAutoApprove {
		return types.DecisionApproved
	}
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := reader.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return types.DecisionApproved
	default:
		return types.DecisionDenied
	}
}
