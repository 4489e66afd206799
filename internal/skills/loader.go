package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/claude-skills-go/internal/rules"
)

// Load discovers and parses skill bundles from both user-level
// (~/.claude/skills/) and project-level (.claude/skills/) directories.
// Project-level skills take precedence over user-level skills with the
// same name.
func Load(cwd string) ([]Skill, error) {
	var skills []Skill
	seen := make(map[string]bool)

	// Project-level skills first (higher priority).
	projectDir := filepath.Join(cwd, ".claude", "skills")
	for _, s := range loadDir(projectDir, ScopeProject) {
		skills = append(skills, s)
		seen[s.Name] = true
	}

	// User-level skills (lower priority — skip if name already seen).
	home, err := os.UserHomeDir()
	if err != nil {
		return skills, nil
	}
	userDir := filepath.Join(home, ".claude", "skills")
	for _, s := range loadDir(userDir, ScopeUser) {
		if !seen[s.Name] {
			skills = append(skills, s)
			seen[s.Name] = true
		}
	}

	return skills, nil
}

// Rules compiles skill frontmatter into engine rules. Skills with neither
// keywords nor paths produce no rule.
func Rules(skills []Skill) []rules.Rule {
	var rs []rules.Rule
	for _, s := range skills {
		if len(s.Keywords) == 0 && len(s.Paths) == 0 {
			continue
		}
		rs = append(rs, rules.Rule{
			Skill:    s.Name,
			Keywords: s.Keywords,
			Paths:    s.Paths,
			Priority: s.Priority,
			Source:   s.FilePath,
		})
	}
	return rs
}

// Render assembles the guidance text for one skill: a header line with the
// name and description, followed by the body with imports resolved.
func Render(s Skill) string {
	header := "## " + s.Name
	if s.Description != "" {
		header += " — " + s.Description
	}
	body := ResolveImports(s.Content, filepath.Dir(s.FilePath))
	return header + "\n\n" + body
}

// ActiveContent returns the combined guidance of the given skills for
// injection as additional context.
func ActiveContent(skills []Skill) string {
	if len(skills) == 0 {
		return ""
	}
	var parts []string
	for _, s := range skills {
		parts = append(parts, Render(s))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// ByName returns the skill with the given name, if loaded.
func ByName(skills []Skill, name string) (Skill, bool) {
	for _, s := range skills {
		if s.Name == name {
			return s, true
		}
	}
	return Skill{}, false
}

// loadDir reads all <dir>/<name>/SKILL.md bundles. Unreadable or unparsable
// bundles are skipped with a warning, never fatal.
func loadDir(dir, scope string) []Skill {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name(), "SKILL.md")
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		skill, err := Parse(string(data), path)
		if err != nil {
			log.Warnf("skipping skill %s: %v", path, err)
			continue
		}
		if skill.Name == "" {
			// Use the bundle directory name as fallback.
			skill.Name = entry.Name()
		}
		skill.Scope = scope
		skills = append(skills, skill)
	}
	return skills
}

// Parse parses SKILL.md content with optional YAML frontmatter.
// Frontmatter is delimited by "---" lines at the top of the file.
func Parse(content, filePath string) (Skill, error) {
	s := Skill{FilePath: filePath}

	if !strings.HasPrefix(content, "---") {
		s.Content = strings.TrimSpace(content)
		return s, nil
	}

	// Expected format: ---\nyaml\n---\nbody
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		s.Content = strings.TrimSpace(content)
		return s, nil
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		return Skill{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	s.Name = strings.TrimSpace(fm.Name)
	s.Description = strings.TrimSpace(fm.Description)
	s.Keywords = trimList(fm.Keywords)
	s.Paths = trimList(fm.Paths)
	s.Priority = fm.Priority
	s.Content = strings.TrimSpace(parts[2])
	return s, nil
}

func trimList(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
