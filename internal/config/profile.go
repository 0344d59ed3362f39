package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentcore/agentcore/pkg/types"
)

// AgentProfile is one named subagent definition: a YAML front-matter block
// (model, approval policy) followed by a Markdown body
// that becomes the profile's instructions. Profiles live as
// .agentcore/agents/<name>.md in a project, one file per profile.
type AgentProfile struct {
	Name           string `yaml:"-"`
	Model          string `yaml:"model"`
	ApprovalPolicy string `yaml:"approval_policy"`
	Instructions   string `yaml:"-"`
}

// frontMatterDelim marks the start and end of a profile file's YAML header,
// matching the Markdown front-matter convention.
const frontMatterDelim = "---"

// LoadAgentProfile reads and parses a single agent profile file by name
// from <directory>/.agentcore/agents/<name>.md.
func LoadAgentProfile(directory, name string) (*AgentProfile, error) {
	path := filepath.Join(directory, ".agentcore", "agents", name+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent profile %s: %w", name, err)
	}
	profile, err := parseAgentProfile(data)
	if err != nil {
		return nil, fmt.Errorf("parse agent profile %s: %w", name, err)
	}
	profile.Name = name
	return profile, nil
}

// ListAgentProfiles returns every profile defined under
// <directory>/.agentcore/agents/, sorted by filename. A missing directory
// is not an error; it simply yields no profiles.
func ListAgentProfiles(directory string) ([]*AgentProfile, error) {
	dir := filepath.Join(directory, ".agentcore", "agents")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list agent profiles: %w", err)
	}

	var profiles []*AgentProfile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		profile, err := LoadAgentProfile(directory, name)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// parseAgentProfile splits a profile file into its YAML front matter and
// Markdown body. A file with no front-matter delimiters is treated as an
// all-body profile with default settings.
func parseAgentProfile(data []byte) (*AgentProfile, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontMatterDelim) {
		return &AgentProfile{Instructions: strings.TrimSpace(text)}, nil
	}

	rest := strings.TrimPrefix(text, frontMatterDelim)
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end == -1 {
		return nil, fmt.Errorf("unterminated front matter")
	}

	header := rest[:end]
	body := strings.TrimSpace(rest[end+len("\n"+frontMatterDelim):])

	var profile AgentProfile
	if err := yaml.Unmarshal([]byte(header), &profile); err != nil {
		return nil, fmt.Errorf("unmarshal front matter: %w", err)
	}
	profile.Instructions = body
	return &profile, nil
}

// ApplyAgentProfile layers a profile's settings onto cfg: the profile's
// model and approval policy, when set, override the base config, and its
// instructions are prepended ahead of any instructions already loaded from
// the base config file.
func ApplyAgentProfile(cfg *types.Config, profile *AgentProfile) {
	if profile.Model != "" {
		cfg.Model = profile.Model
	}
	if profile.ApprovalPolicy != "" {
		cfg.ApprovalPolicy = types.ApprovalPolicy(profile.ApprovalPolicy)
	}
	if profile.Instructions != "" {
		if cfg.Instructions != "" {
			cfg.Instructions = profile.Instructions + "\n\n" + cfg.Instructions
		} else {
			cfg.Instructions = profile.Instructions
		}
	}
}
