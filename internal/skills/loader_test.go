package skills

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSkill(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, ".claude", "skills", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestParse_WithFrontmatter(t *testing.T) {
	content := `---
name: tmux-shortcuts
description: tmux keyboard shortcuts
keywords:
  - tmux
  - pane
paths:
  - "**/*.tmux.conf"
priority: 5
---

# tmux

Prefix is C-b.`

	skill, err := Parse(content, "test/SKILL.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if skill.Name != "tmux-shortcuts" {
		t.Errorf("expected name 'tmux-shortcuts', got %q", skill.Name)
	}
	if skill.Description != "tmux keyboard shortcuts" {
		t.Errorf("unexpected description: %q", skill.Description)
	}
	if len(skill.Keywords) != 2 || skill.Keywords[0] != "tmux" {
		t.Errorf("unexpected keywords: %v", skill.Keywords)
	}
	if len(skill.Paths) != 1 {
		t.Errorf("unexpected paths: %v", skill.Paths)
	}
	if skill.Priority != 5 {
		t.Errorf("expected priority 5, got %d", skill.Priority)
	}
	if skill.Content != "# tmux\n\nPrefix is C-b." {
		t.Errorf("unexpected content: %q", skill.Content)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	skill, err := Parse("Just some markdown content", "test/SKILL.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skill.Name != "" {
		t.Errorf("expected empty name, got %q", skill.Name)
	}
	if skill.Content != "Just some markdown content" {
		t.Errorf("unexpected content: %q", skill.Content)
	}
}

func TestParse_EmptyBody(t *testing.T) {
	content := `---
name: header-only
---
`
	skill, err := Parse(content, "test/SKILL.md")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skill.Name != "header-only" {
		t.Errorf("expected name 'header-only', got %q", skill.Name)
	}
	if skill.Content != "" {
		t.Errorf("expected empty content, got %q", skill.Content)
	}
}

func TestParse_BadFrontmatter(t *testing.T) {
	content := "---\nkeywords: [unclosed\n---\nbody"
	if _, err := Parse(content, "test/SKILL.md"); err == nil {
		t.Error("expected error for invalid YAML frontmatter")
	}
}

func TestLoad_FallbackName(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	writeSkill(t, cwd, "review", "Review instructions")

	skills, err := Load(cwd)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Name != "review" {
		t.Errorf("expected fallback name 'review', got %q", skills[0].Name)
	}
	if skills[0].Scope != ScopeProject {
		t.Errorf("expected project scope, got %q", skills[0].Scope)
	}
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	userDir := filepath.Join(home, ".claude", "skills", "shared")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userSkill := "---\nname: shared\ndescription: User version\n---\nUser content"
	if err := os.WriteFile(filepath.Join(userDir, "SKILL.md"), []byte(userSkill), 0644); err != nil {
		t.Fatal(err)
	}

	writeSkill(t, cwd, "shared", "---\nname: shared\ndescription: Project version\n---\nProject content")

	skills, err := Load(cwd)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(skills) != 1 {
		t.Fatalf("expected 1 skill, got %d", len(skills))
	}
	if skills[0].Description != "Project version" {
		t.Errorf("expected project version to win, got %q", skills[0].Description)
	}
}

func TestLoad_SkipsNonDirectories(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	skillsDir := filepath.Join(cwd, ".claude", "skills")
	if err := os.MkdirAll(skillsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(skillsDir, "stray.md"), []byte("not a bundle"), 0644); err != nil {
		t.Fatal(err)
	}

	skills, err := Load(cwd)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(skills) != 0 {
		t.Errorf("expected stray file to be skipped, got %d skills", len(skills))
	}
}

func TestRules_CompilesFrontmatter(t *testing.T) {
	skills := []Skill{
		{Name: "a", Keywords: []string{"k"}, Priority: 3, FilePath: "/x/SKILL.md"},
		{Name: "b"}, // no keywords, no paths — no rule
		{Name: "c", Paths: []string{"**/*.md"}},
	}

	rs := Rules(skills)
	if len(rs) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs))
	}
	if rs[0].Skill != "a" || rs[0].Priority != 3 || rs[0].Source != "/x/SKILL.md" {
		t.Errorf("unexpected rule: %+v", rs[0])
	}
}

func TestActiveContent(t *testing.T) {
	skills := []Skill{
		{Name: "skill1", Description: "First", Content: "Body 1"},
		{Name: "skill2", Content: "Body 2"},
	}

	content := ActiveContent(skills)
	if !strings.Contains(content, "## skill1 — First") {
		t.Error("content should contain skill1 header with description")
	}
	if !strings.Contains(content, "## skill2") {
		t.Error("content should contain skill2 header")
	}
	if !strings.Contains(content, "Body 1") || !strings.Contains(content, "Body 2") {
		t.Error("content should contain both bodies")
	}
	if !strings.Contains(content, "\n\n---\n\n") {
		t.Error("sections should be separated by ---")
	}
}

func TestActiveContent_Empty(t *testing.T) {
	if content := ActiveContent(nil); content != "" {
		t.Errorf("expected empty content, got %q", content)
	}
}
