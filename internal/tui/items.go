package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/claude-skills-go/internal/agents"
	"github.com/anthropics/claude-skills-go/internal/library"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

// entry is one browsable corpus item adapting skills, agents, and library
// docs to the bubbles list.Item interface.
type entry struct {
	kind string // "skill", "agent", "doc"
	name string
	desc string
	path string

	skill *skills.Skill
	agent *agents.Agent
}

func skillEntry(s skills.Skill) entry {
	return entry{kind: "skill", name: s.Name, desc: s.Description, path: s.FilePath, skill: &s}
}

func agentEntry(a agents.Agent) entry {
	return entry{kind: "agent", name: a.Name, desc: a.Description, path: a.FilePath, agent: &a}
}

func docEntry(d library.Doc) entry {
	return entry{kind: "doc", name: d.Title, desc: d.Rel, path: d.Path}
}

func (e entry) id() string { return e.kind + ":" + e.path }

// Title implements list.Item.
func (e entry) Title() string { return fmt.Sprintf("[%s] %s", e.kind, e.name) }

// Description implements list.Item.
func (e entry) Description() string { return e.describe() }

// FilterValue implements list.Item.
func (e entry) FilterValue() string { return e.name + " " + e.kind + " " + e.desc }

func (e entry) describe() string {
	if e.desc != "" {
		return e.desc
	}
	return e.path
}

// content returns the markdown to preview for this entry.
func (e entry) content() (string, error) {
	switch {
	case e.skill != nil:
		return skills.Render(*e.skill), nil
	case e.agent != nil:
		var b strings.Builder
		fmt.Fprintf(&b, "## %s — %s\n\n", e.agent.Name, e.agent.Description)
		if e.agent.Model != "" {
			fmt.Fprintf(&b, "Model: %s\n\n", e.agent.Model)
		}
		if len(e.agent.Tools) != 0 {
			fmt.Fprintf(&b, "Tools: %s\n\n", strings.Join(e.agent.Tools, ", "))
		}
		b.WriteString(e.agent.Prompt)
		return b.String(), nil
	default:
		data, err := os.ReadFile(e.path)
		if err != nil {
			return "", fmt.Errorf("reading document: %w", err)
		}
		return string(data), nil
	}
}
