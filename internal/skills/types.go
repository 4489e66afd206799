// Package skills implements skill bundle discovery and parsing.
//
// Skills are directories containing a SKILL.md file (YAML frontmatter plus
// a markdown guidance body) located in:
//   - ~/.claude/skills/<name>/SKILL.md (user-level, all projects)
//   - .claude/skills/<name>/SKILL.md  (project-level)
package skills

// Scope values for where a skill was loaded from.
const (
	ScopeUser    = "user"
	ScopeProject = "project"
)

// Skill represents a loaded skill bundle.
type Skill struct {
	Name        string   // skill name from frontmatter (or directory name)
	Description string   // short description from frontmatter
	Keywords    []string // activation keywords from frontmatter
	Paths       []string // activation path patterns from frontmatter
	Priority    int      // activation priority, higher wins
	Content     string   // markdown body (guidance text)
	FilePath    string   // source SKILL.md path
	Scope       string   // "user" or "project"
}

// frontmatter is the YAML header of a SKILL.md file.
type frontmatter struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	Paths       []string `yaml:"paths"`
	Priority    int      `yaml:"priority"`
}
