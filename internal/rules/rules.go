// Package rules loads and validates skill activation rule files.
//
// Rules are stored in .claude/skill-rules.json at two scopes:
//   - ~/.claude/skill-rules.json (user-level, all projects)
//   - .claude/skill-rules.json  (project-level)
//
// Project-level rules take precedence over user-level rules with the
// same skill name.
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Rule is one activation record: when the keywords or path patterns match,
// the named skill's guidance is surfaced.
type Rule struct {
	Skill    string   `json:"skill"`
	Keywords []string `json:"keywords,omitempty"`
	Paths    []string `json:"paths,omitempty"`
	Priority int      `json:"priority,omitempty"`

	// Source is the file this rule was loaded from. Loader-set, not serialized.
	Source string `json:"-"`
}

// File is the on-disk shape of a skill-rules.json file.
type File struct {
	Version int    `json:"version"`
	Rules   []Rule `json:"rules"`
}

// Problem describes a structural defect found by Validate.
type Problem struct {
	Skill   string // rule's skill name ("" if missing)
	Source  string // file the rule came from
	Message string
}

// FileName is the rule file name under a .claude directory.
const FileName = "skill-rules.json"

// ProjectPath returns the project-scope rule file path.
func ProjectPath(cwd string) string {
	return filepath.Join(cwd, ".claude", FileName)
}

// Load reads and decodes a single rule file. Empty keyword strings are
// dropped so the engine never sees them; Source is set on every rule.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	for i := range f.Rules {
		f.Rules[i].Source = path
		f.Rules[i].Keywords = trimKeywords(f.Rules[i].Keywords)
	}
	return &f, nil
}

// LoadAll loads rules from the user and project scopes. Project rules win
// on duplicate skill names. Missing files are not errors.
func LoadAll(cwd string) ([]Rule, error) {
	var all []Rule
	seen := make(map[string]bool)

	// Project-level rules first (higher priority).
	if f, err := Load(ProjectPath(cwd)); err == nil {
		for _, r := range f.Rules {
			all = append(all, r)
			seen[r.Skill] = true
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// User-level rules (lower priority — skip if skill already seen).
	home, err := os.UserHomeDir()
	if err != nil {
		return all, nil
	}
	userPath := filepath.Join(home, ".claude", FileName)
	if f, err := Load(userPath); err == nil {
		for _, r := range f.Rules {
			if !seen[r.Skill] {
				all = append(all, r)
				seen[r.Skill] = true
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return all, nil
}

// Save writes a rule file with stable formatting.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating rules directory: %w", err)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing rules file: %w", err)
	}
	return nil
}

// Validate reports structural problems in a rule set. Empty keyword strings,
// rules with no skill name, rules that can never fire, and invalid path
// patterns are all flagged.
func Validate(rs []Rule) []Problem {
	var problems []Problem
	counts := make(map[string]int)

	for _, r := range rs {
		counts[r.Skill]++

		if strings.TrimSpace(r.Skill) == "" {
			problems = append(problems, Problem{
				Source:  r.Source,
				Message: "rule has no skill name",
			})
			continue
		}

		for _, k := range r.Keywords {
			if strings.TrimSpace(k) == "" {
				problems = append(problems, Problem{
					Skill:   r.Skill,
					Source:  r.Source,
					Message: "empty keyword string",
				})
			}
		}

		if len(r.Keywords) == 0 && len(r.Paths) == 0 {
			problems = append(problems, Problem{
				Skill:   r.Skill,
				Source:  r.Source,
				Message: "rule has no keywords and no paths; it can never fire",
			})
		}

		for _, p := range r.Paths {
			if !doublestar.ValidatePattern(p) {
				problems = append(problems, Problem{
					Skill:   r.Skill,
					Source:  r.Source,
					Message: fmt.Sprintf("invalid path pattern %q", p),
				})
			}
		}
	}

	for skill, n := range counts {
		if skill != "" && n > 1 {
			problems = append(problems, Problem{
				Skill:   skill,
				Message: fmt.Sprintf("skill appears in %d rules; last wins", n),
			})
		}
	}

	return problems
}

// trimKeywords drops keywords that are empty after trimming.
func trimKeywords(keywords []string) []string {
	var out []string
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
