package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "tmux.md", `# tmux Shortcuts

## Panes

| Key | Action |
|-----|--------|
| %   | split  |

## Windows
`)
	writeDoc(t, root, "notes/ffmpeg.md", "Some notes without a heading")
	writeDoc(t, root, "skip.txt", "not markdown")

	idx, err := Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(idx.Docs))
	}

	tmux, ok := idx.ByRel("tmux.md")
	if !ok {
		t.Fatal("tmux.md not indexed")
	}
	if tmux.Title != "tmux Shortcuts" {
		t.Errorf("expected title from first heading, got %q", tmux.Title)
	}
	if len(tmux.Headings) != 2 {
		t.Errorf("expected 2 headings, got %v", tmux.Headings)
	}
	if tmux.Tables != 1 {
		t.Errorf("expected 1 table, got %d", tmux.Tables)
	}

	ffmpeg, ok := idx.ByRel(filepath.Join("notes", "ffmpeg.md"))
	if !ok {
		t.Fatal("ffmpeg.md not indexed")
	}
	if ffmpeg.Title != "ffmpeg" {
		t.Errorf("expected filename fallback title, got %q", ffmpeg.Title)
	}
}

func TestBuild_EmptyRoots(t *testing.T) {
	idx, err := Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 0 {
		t.Errorf("expected empty index, got %d docs", len(idx.Docs))
	}
}

func TestBuild_MissingRootIgnored(t *testing.T) {
	idx, err := Build(context.Background(), []string{"/nonexistent/path"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 0 {
		t.Errorf("expected empty index, got %d docs", len(idx.Docs))
	}
}

func TestBuild_RootPrecedenceOnDuplicates(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeDoc(t, first, "same.md", "# From First")
	writeDoc(t, second, "same.md", "# From Second")

	idx, err := Build(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 1 {
		t.Fatalf("expected duplicate rel collapsed, got %d docs", len(idx.Docs))
	}
	if idx.Docs[0].Title != "From First" {
		t.Errorf("expected first root to win, got %q", idx.Docs[0].Title)
	}
}

func TestBuild_SortedByModTime(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "old.md", "# Old")
	writeDoc(t, root, "new.md", "# New")

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(root, "old.md"), old, old); err != nil {
		t.Fatal(err)
	}

	idx, err := Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(idx.Docs))
	}
	if idx.Docs[0].Rel != "new.md" {
		t.Errorf("expected most recent doc first, got %q", idx.Docs[0].Rel)
	}
}

func TestBuild_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, ".claude/skills/x/SKILL.md", "# Not corpus")
	writeDoc(t, root, "real.md", "# Real")

	idx, err := Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(idx.Docs) != 1 || idx.Docs[0].Rel != "real.md" {
		t.Errorf("expected hidden dirs skipped, got %v", idx.Docs)
	}
}

func TestBuild_IgnoresTablesInFences(t *testing.T) {
	root := t.TempDir()
	writeDoc(t, root, "fenced.md", "# Doc\n```\n| not | a table |\n```\n")

	idx, err := Build(context.Background(), []string{root})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Docs[0].Tables != 0 {
		t.Errorf("expected fenced pipes not counted as tables, got %d", idx.Docs[0].Tables)
	}
}
