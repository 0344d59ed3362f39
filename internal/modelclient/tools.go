package modelclient

import (
	"encoding/json"

	"github.com/agentcore/agentcore/pkg/types"
)

// shellToolSchema is the JSON Schema for the built-in "shell" function tool,
// the only tool offered on every turn besides whatever MCP tools the
// orchestrator forwards via Prompt.ExtraTools.
var shellToolSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"command": {"type": "array", "items": {"type": "string"}},
		"workdir": {"type": "string"},
		"timeout": {"type": "number"}
	},
	"required": ["command"],
	"additionalProperties": false
}`)

// openAITool is the wire shape of one entry in the Responses API's "tools"
// array.
type openAITool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Strict      bool            `json:"strict,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// buildToolsJSON assembles the built-in shell tool plus any MCP-backed
// tools the caller forwarded for this turn.
func buildToolsJSON(extra []types.ToolSpec) []openAITool {
	tools := make([]openAITool, 0, len(extra)+1)
	tools = append(tools, openAITool{
		Type:        "function",
		Name:        "shell",
		Description: "Runs a shell command, and returns its output.",
		Strict:      false,
		Parameters:  shellToolSchema,
	})
	for _, t := range extra {
		tools = append(tools, openAITool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return tools
}
