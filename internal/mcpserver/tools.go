package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/claude-skills-go/internal/config"
	"github.com/anthropics/claude-skills-go/internal/engine"
	"github.com/anthropics/claude-skills-go/internal/library"
	"github.com/anthropics/claude-skills-go/internal/rfc"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

// watchRoots returns the directories the reload watcher covers: both
// .claude scopes plus any configured library roots.
func watchRoots(cwd string, settings *config.Settings) []string {
	roots := []string{filepath.Join(cwd, ".claude")}
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".claude"))
	}
	for _, r := range settings.Skills.LibraryRoots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(cwd, r)
		}
		roots = append(roots, r)
	}
	return roots
}

// libraryRoots resolves the configured library roots against the project.
func (s *Server) libraryRoots() []string {
	snap := s.current()
	var roots []string
	for _, r := range snap.settings.Skills.LibraryRoots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(s.cwd, r)
		}
		roots = append(roots, r)
	}
	if len(roots) == 0 {
		roots = []string{filepath.Join(s.cwd, "docs")}
	}
	return roots
}

func schema(s string) json.RawMessage {
	return json.RawMessage(s)
}

func toolDefs() []ToolDef {
	return []ToolDef{
		{
			Name:        "skills_list",
			Description: "List available skills with their descriptions and scope.",
			InputSchema: schema(`{"type":"object","properties":{}}`),
		},
		{
			Name:        "skills_activate",
			Description: "Match a prompt and optional file paths against the activation rules and return the activated skills' guidance.",
			InputSchema: schema(`{"type":"object","properties":{"prompt":{"type":"string"},"files":{"type":"array","items":{"type":"string"}}}}`),
		},
		{
			Name:        "skills_read",
			Description: "Read one skill's full content with imports resolved.",
			InputSchema: schema(`{"type":"object","properties":{"name":{"type":"string"}},"required":["name"]}`),
		},
		{
			Name:        "library_search",
			Description: "Search the markdown reference library by title and headings.",
			InputSchema: schema(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer"}},"required":["query"]}`),
		},
		{
			Name:        "library_read",
			Description: "Read one library document by its relative path.",
			InputSchema: schema(`{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`),
		},
		{
			Name:        "rfc_check",
			Description: "Validate an RFC document's structure and metadata.",
			InputSchema: schema(`{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`),
		},
	}
}

// callTool runs one tool. A returned error becomes a protocol error
// (unknown tool, bad arguments); tool-level failures come back as isError
// results.
func (s *Server) callTool(params *ToolCallParams) (*ToolCallResult, error) {
	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch params.Name {
	case "skills_list":
		return s.toolSkillsList(), nil
	case "skills_activate":
		var in struct {
			Prompt string   `json:"prompt"`
			Files  []string `json:"files"`
		}
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("invalid skills_activate arguments: %w", err)
		}
		return s.toolSkillsActivate(in.Prompt, in.Files), nil
	case "skills_read":
		var in struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.Name == "" {
			return nil, fmt.Errorf("skills_read requires a name")
		}
		return s.toolSkillsRead(in.Name), nil
	case "library_search":
		var in struct {
			Query string `json:"query"`
			Limit int    `json:"limit"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.Query == "" {
			return nil, fmt.Errorf("library_search requires a query")
		}
		return s.toolLibrarySearch(in.Query, in.Limit), nil
	case "library_read":
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.Path == "" {
			return nil, fmt.Errorf("library_read requires a path")
		}
		return s.toolLibraryRead(in.Path), nil
	case "rfc_check":
		var in struct {
			Path string `json:"path"`
		}
		if err := json.Unmarshal(args, &in); err != nil || in.Path == "" {
			return nil, fmt.Errorf("rfc_check requires a path")
		}
		return s.toolRFCCheck(in.Path), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", params.Name)
	}
}

func (s *Server) toolSkillsList() *ToolCallResult {
	snap := s.current()
	if len(snap.skills) == 0 {
		return textResult("No skills installed.")
	}

	var b strings.Builder
	for _, sk := range snap.skills {
		fmt.Fprintf(&b, "- %s (%s): %s\n", sk.Name, sk.Scope, sk.Description)
	}
	return textResult(strings.TrimRight(b.String(), "\n"))
}

func (s *Server) toolSkillsActivate(prompt string, files []string) *ToolCallResult {
	snap := s.current()
	acts := snap.eng.Match(engine.Query{Prompt: prompt, Files: files})
	if len(acts) == 0 {
		return textResult("No skills activated.")
	}

	var sections []string
	for _, act := range acts {
		header := fmt.Sprintf("Activated %s (priority %d, score %.1f)",
			act.Rule.Skill, act.Rule.Priority, act.Score)
		if sk, ok := skills.ByName(snap.skills, act.Rule.Skill); ok {
			sections = append(sections, header+"\n\n"+skills.Render(sk))
		} else {
			sections = append(sections, header)
		}
	}
	return textResult(strings.Join(sections, "\n\n---\n\n"))
}

func (s *Server) toolSkillsRead(name string) *ToolCallResult {
	snap := s.current()
	sk, ok := skills.ByName(snap.skills, name)
	if !ok {
		return errorResult(fmt.Sprintf("no such skill: %s", name))
	}
	return textResult(skills.Render(sk))
}

func (s *Server) toolLibrarySearch(query string, limit int) *ToolCallResult {
	idx, err := library.Build(context.Background(), s.libraryRoots())
	if err != nil {
		return errorResult(fmt.Sprintf("indexing library: %v", err))
	}

	results := library.Search(idx, query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		return textResult("No matching documents.")
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "- %s (%s)\n", r.Doc.Title, r.Doc.Rel)
	}
	return textResult(strings.TrimRight(b.String(), "\n"))
}

func (s *Server) toolLibraryRead(path string) *ToolCallResult {
	idx, err := library.Build(context.Background(), s.libraryRoots())
	if err != nil {
		return errorResult(fmt.Sprintf("indexing library: %v", err))
	}

	doc, ok := idx.ByRel(path)
	if !ok {
		return errorResult(fmt.Sprintf("no such document: %s", path))
	}
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return errorResult(fmt.Sprintf("reading document: %v", err))
	}
	return textResult(string(data))
}

func (s *Server) toolRFCCheck(path string) *ToolCallResult {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cwd, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errorResult(fmt.Sprintf("reading RFC: %v", err))
	}

	problems := rfc.Check(rfc.Parse(string(data)))
	if len(problems) == 0 {
		return textResult("RFC is well-formed.")
	}
	var b strings.Builder
	for _, p := range problems {
		fmt.Fprintf(&b, "- %s\n", p.Message)
	}
	return textResult(strings.TrimRight(b.String(), "\n"))
}
