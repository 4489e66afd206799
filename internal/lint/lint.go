// Package lint runs structural checks over a project's guidance corpus:
// rule files, skill bundles, agent definitions, and the markdown library.
package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/anthropics/claude-skills-go/internal/agents"
	"github.com/anthropics/claude-skills-go/internal/library"
	"github.com/anthropics/claude-skills-go/internal/rfc"
	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Problem is one lint finding.
type Problem struct {
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Line     int    `json:"line,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Options selects what to lint.
type Options struct {
	CWD          string
	LibraryRoots []string
	RFCPaths     []string
}

// Run executes all checks and returns findings sorted by path, then line.
func Run(ctx context.Context, opts Options) ([]Problem, error) {
	var problems []Problem

	sk, err := skills.Load(opts.CWD)
	if err != nil {
		return nil, fmt.Errorf("loading skills: %w", err)
	}

	problems = append(problems, checkRules(opts.CWD, sk)...)
	problems = append(problems, checkSkills(sk)...)
	problems = append(problems, checkAgents(opts.CWD)...)

	libProblems, err := checkLibrary(ctx, opts.LibraryRoots)
	if err != nil {
		return nil, err
	}
	problems = append(problems, libProblems...)

	for _, path := range opts.RFCPaths {
		problems = append(problems, checkRFC(path)...)
	}

	sort.Slice(problems, func(i, j int) bool {
		if problems[i].Path != problems[j].Path {
			return problems[i].Path < problems[j].Path
		}
		if problems[i].Line != problems[j].Line {
			return problems[i].Line < problems[j].Line
		}
		return problems[i].Code < problems[j].Code
	})
	return problems, nil
}

// HasErrors reports whether any finding is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Write renders findings for humans, one line each.
func Write(w io.Writer, problems []Problem) {
	for _, p := range problems {
		loc := p.Path
		if p.Line > 0 {
			loc = fmt.Sprintf("%s:%d", p.Path, p.Line)
		}
		if loc != "" {
			fmt.Fprintf(w, "%s: %s: %s [%s]\n", loc, p.Severity, p.Message, p.Code)
		} else {
			fmt.Fprintf(w, "%s: %s [%s]\n", p.Severity, p.Message, p.Code)
		}
	}
}

// WriteJSON renders findings as a JSON array.
func WriteJSON(w io.Writer, problems []Problem) error {
	if problems == nil {
		problems = []Problem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(problems)
}

// checkRules validates rule files raw, so defects the loader papers over
// (empty keywords) still surface, and warns on rules naming skills that do
// not exist anywhere.
func checkRules(cwd string, sk []skills.Skill) []Problem {
	var problems []Problem

	known := make(map[string]bool)
	for _, s := range sk {
		known[s.Name] = true
	}

	paths := []string{filepath.Join(cwd, ".claude", rules.FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".claude", rules.FileName))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			problems = append(problems, Problem{
				Severity: SeverityError, Path: path, Code: "rules-read",
				Message: err.Error(),
			})
			continue
		}

		var f rules.File
		if err := json.Unmarshal(data, &f); err != nil {
			problems = append(problems, Problem{
				Severity: SeverityError, Path: path, Code: "rules-json",
				Message: fmt.Sprintf("malformed rule file: %v", err),
			})
			continue
		}

		for i := range f.Rules {
			f.Rules[i].Source = path
		}
		for _, vp := range rules.Validate(f.Rules) {
			severity := SeverityError
			if strings.Contains(vp.Message, "last wins") {
				severity = SeverityWarning
			}
			problems = append(problems, Problem{
				Severity: severity, Path: path, Code: "rules-validate",
				Message: ruleMessage(vp),
			})
		}

		for _, r := range f.Rules {
			if r.Skill != "" && !known[r.Skill] {
				problems = append(problems, Problem{
					Severity: SeverityWarning, Path: path, Code: "rules-unknown-skill",
					Message: fmt.Sprintf("rule names skill %q but no such skill bundle exists", r.Skill),
				})
			}
		}
	}

	return problems
}

func ruleMessage(p rules.Problem) string {
	if p.Skill != "" {
		return fmt.Sprintf("%s: %s", p.Skill, p.Message)
	}
	return p.Message
}

var importRe = regexp.MustCompile(`(?m)^@([^\s]+)\s*$`)

func checkSkills(sk []skills.Skill) []Problem {
	var problems []Problem
	for _, s := range sk {
		if s.Description == "" {
			problems = append(problems, Problem{
				Severity: SeverityWarning, Path: s.FilePath, Code: "skill-no-description",
				Message: fmt.Sprintf("skill %q has no description", s.Name),
			})
		}

		dir := filepath.Base(filepath.Dir(s.FilePath))
		if s.Name != dir {
			problems = append(problems, Problem{
				Severity: SeverityWarning, Path: s.FilePath, Code: "skill-name-mismatch",
				Message: fmt.Sprintf("frontmatter name %q does not match directory %q", s.Name, dir),
			})
		}

		base := filepath.Dir(s.FilePath)
		for _, m := range importRe.FindAllStringSubmatch(s.Content, -1) {
			target := m[1]
			resolved := target
			if !filepath.IsAbs(resolved) {
				resolved = filepath.Join(base, resolved)
			}
			if _, err := os.Stat(resolved); err != nil {
				problems = append(problems, Problem{
					Severity: SeverityError, Path: s.FilePath, Code: "skill-bad-import",
					Message: fmt.Sprintf("@%s does not resolve", target),
				})
			}
		}
	}
	return problems
}

func checkAgents(cwd string) []Problem {
	loaded, err := agents.Load(cwd)
	if err != nil {
		return []Problem{{
			Severity: SeverityError, Code: "agents-load", Message: err.Error(),
		}}
	}

	var problems []Problem
	for _, p := range agents.Validate(loaded) {
		problems = append(problems, Problem{
			Severity: SeverityError, Path: p.Source, Code: "agent-validate",
			Message: p.Message,
		})
	}
	return problems
}

var mdLinkRe = regexp.MustCompile(`\]\(([^)#]+)(#[^)]*)?\)`)

// checkLibrary flags relative markdown links pointing at missing files and
// duplicate titles across the corpus.
func checkLibrary(ctx context.Context, roots []string) ([]Problem, error) {
	if len(roots) == 0 {
		return nil, nil
	}

	idx, err := library.Build(ctx, roots)
	if err != nil {
		return nil, fmt.Errorf("indexing library: %w", err)
	}

	var problems []Problem

	titles := make(map[string][]string)
	for _, d := range idx.Docs {
		if d.Title != "" {
			titles[d.Title] = append(titles[d.Title], d.Rel)
		}
	}
	for title, rels := range titles {
		if len(rels) > 1 {
			sort.Strings(rels)
			problems = append(problems, Problem{
				Severity: SeverityWarning, Path: rels[0], Code: "library-duplicate-title",
				Message: fmt.Sprintf("title %q also used by %s", title, strings.Join(rels[1:], ", ")),
			})
		}
	}

	for _, d := range idx.Docs {
		data, err := os.ReadFile(d.Path)
		if err != nil {
			continue
		}
		for _, m := range mdLinkRe.FindAllStringSubmatch(string(data), -1) {
			target := strings.TrimSpace(m[1])
			if target == "" || strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:") {
				continue
			}
			if filepath.IsAbs(target) {
				continue
			}
			resolved := filepath.Join(filepath.Dir(d.Path), target)
			if _, err := os.Stat(resolved); err != nil {
				problems = append(problems, Problem{
					Severity: SeverityError, Path: d.Rel, Code: "library-broken-link",
					Message: fmt.Sprintf("link target %q does not exist", target),
				})
			}
		}
	}

	return problems, nil
}

func checkRFC(path string) []Problem {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Problem{{
			Severity: SeverityError, Path: path, Code: "rfc-read", Message: err.Error(),
		}}
	}

	var problems []Problem
	for _, p := range rfc.Check(rfc.Parse(string(data))) {
		problems = append(problems, Problem{
			Severity: SeverityError, Path: path, Code: "rfc-check", Message: p.Message,
		})
	}
	return problems
}
