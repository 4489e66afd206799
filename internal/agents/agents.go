// Package agents loads persona definitions: markdown files with YAML
// frontmatter whose body is the agent's system prompt.
//
// Agents live in .claude/agents/<name>.md at the project scope and
// ~/.claude/agents/<name>.md at the user scope; project wins on name
// collision.
package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Agent is a loaded persona definition.
type Agent struct {
	Name        string
	Description string
	Model       string
	Tools       []string
	Prompt      string // markdown body (system prompt)
	FilePath    string
	Scope       string // "user" or "project"
}

// Problem describes a validation defect in an agent definition.
type Problem struct {
	Agent   string
	Source  string
	Message string
}

var nameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// frontmatter is the YAML header of an agent file. Tools may be a YAML
// list or a comma-separated string.
type frontmatter struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Model       string    `yaml:"model"`
	Tools       toolsList `yaml:"tools"`
}

type toolsList []string

func (t *toolsList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		for _, part := range strings.Split(s, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				*t = append(*t, part)
			}
		}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*t = toolsList(list)
		return nil
	default:
		return fmt.Errorf("tools must be a list or comma-separated string")
	}
}

// Load discovers agents from both scopes. Project agents take precedence
// over user agents with the same name.
func Load(cwd string) ([]Agent, error) {
	var agents []Agent
	seen := make(map[string]bool)

	projectDir := filepath.Join(cwd, ".claude", "agents")
	for _, a := range loadDir(projectDir, "project") {
		agents = append(agents, a)
		seen[a.Name] = true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return agents, nil
	}
	userDir := filepath.Join(home, ".claude", "agents")
	for _, a := range loadDir(userDir, "user") {
		if !seen[a.Name] {
			agents = append(agents, a)
			seen[a.Name] = true
		}
	}

	return agents, nil
}

// ByName returns the agent with the given name, if loaded.
func ByName(agents []Agent, name string) (Agent, bool) {
	for _, a := range agents {
		if a.Name == name {
			return a, true
		}
	}
	return Agent{}, false
}

// Validate reports definition problems: missing or malformed names and
// empty descriptions.
func Validate(agents []Agent) []Problem {
	var problems []Problem
	for _, a := range agents {
		if a.Name == "" {
			problems = append(problems, Problem{
				Source:  a.FilePath,
				Message: "agent has no name",
			})
			continue
		}
		if !nameRe.MatchString(a.Name) {
			problems = append(problems, Problem{
				Agent:   a.Name,
				Source:  a.FilePath,
				Message: "agent name must match [a-z0-9-]+",
			})
		}
		if a.Description == "" {
			problems = append(problems, Problem{
				Agent:   a.Name,
				Source:  a.FilePath,
				Message: "agent has no description",
			})
		}
	}
	return problems
}

func loadDir(dir, scope string) []Agent {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var agents []Agent
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		agent, err := parse(string(data), path)
		if err != nil {
			log.Warnf("skipping agent %s: %v", path, err)
			continue
		}
		if agent.Name == "" {
			agent.Name = strings.TrimSuffix(entry.Name(), ".md")
		}
		agent.Scope = scope
		agents = append(agents, agent)
	}
	return agents
}

func parse(content, filePath string) (Agent, error) {
	a := Agent{FilePath: filePath}

	if !strings.HasPrefix(content, "---") {
		a.Prompt = strings.TrimSpace(content)
		return a, nil
	}

	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		a.Prompt = strings.TrimSpace(content)
		return a, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return Agent{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	a.Name = strings.TrimSpace(fm.Name)
	a.Description = strings.TrimSpace(fm.Description)
	a.Model = strings.TrimSpace(fm.Model)
	a.Tools = []string(fm.Tools)
	a.Prompt = strings.TrimSpace(parts[2])
	return a, nil
}
