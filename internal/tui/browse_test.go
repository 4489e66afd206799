package tui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func setupCorpus(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	proj := t.TempDir()

	skillDir := filepath.Join(proj, ".claude", "skills", "go-style")
	if err := os.MkdirAll(skillDir, 0755); err != nil {
		t.Fatal(err)
	}
	skill := "---\nname: go-style\ndescription: Go style guidance\nkeywords: [golang]\n---\nPrefer early returns.\n"
	if err := os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(skill), 0644); err != nil {
		t.Fatal(err)
	}

	agentDir := filepath.Join(proj, ".claude", "agents")
	if err := os.MkdirAll(agentDir, 0755); err != nil {
		t.Fatal(err)
	}
	agent := "---\nname: reviewer\ndescription: Careful reviewer\n---\nReview carefully.\n"
	if err := os.WriteFile(filepath.Join(agentDir, "reviewer.md"), []byte(agent), 0644); err != nil {
		t.Fatal(err)
	}
	return proj
}

func TestLoadEntries(t *testing.T) {
	proj := setupCorpus(t)
	lib := t.TempDir()
	if err := os.WriteFile(filepath.Join(lib, "doc.md"), []byte("# A Doc\n\nBody.\n"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := loadEntries(context.Background(), proj, []string{lib})
	if err != nil {
		t.Fatalf("loading entries: %v", err)
	}

	kinds := make(map[string]int)
	for _, e := range entries {
		kinds[e.kind]++
	}
	if kinds["skill"] != 1 || kinds["agent"] != 1 || kinds["doc"] != 1 {
		t.Errorf("expected one of each kind, got %v", kinds)
	}
}

func TestLoadEntries_EmptyCorpus(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := loadEntries(context.Background(), t.TempDir(), nil); err == nil {
		t.Error("expected error for empty corpus")
	}
}

func TestEntry_Content(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range entries {
		content, err := e.content()
		if err != nil {
			t.Errorf("%s: content error: %v", e.name, err)
			continue
		}
		switch e.kind {
		case "skill":
			if !strings.Contains(content, "Prefer early returns") {
				t.Errorf("skill content missing body: %q", content)
			}
		case "agent":
			if !strings.Contains(content, "Review carefully") {
				t.Errorf("agent content missing prompt: %q", content)
			}
		}
	}
}

func TestEntry_FilterValue(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if !strings.Contains(e.FilterValue(), e.name) {
			t.Errorf("filter value should include the name: %q", e.FilterValue())
		}
	}
}

func TestModel_TabSwitchesFocus(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(entries)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)
	if m.focusPreview {
		t.Fatal("list should start focused")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !m.focusPreview {
		t.Error("tab should focus the preview pane")
	}
}

func TestModel_EnterTogglesFullscreen(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(entries)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.fullscreen {
		t.Fatal("enter should open fullscreen preview")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.fullscreen {
		t.Error("esc should leave fullscreen")
	}
}

func TestModel_QuitFromList(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}

	m := NewModel(entries)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Errorf("expected quit message, got %T", msg)
		}
	}
}

func TestWriteListing(t *testing.T) {
	proj := setupCorpus(t)
	entries, err := loadEntries(context.Background(), proj, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	WriteListing(&buf, entries)
	out := buf.String()
	if !strings.Contains(out, "go-style") || !strings.Contains(out, "reviewer") {
		t.Errorf("expected all entries in listing, got %q", out)
	}
}
