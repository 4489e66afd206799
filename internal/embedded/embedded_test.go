package embedded

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

func TestManifest(t *testing.T) {
	entries, err := Manifest()
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected manifest entries")
	}

	names := make(map[string]Entry)
	for _, e := range entries {
		names[e.Name] = e
	}
	for _, want := range []string{"style-guide", "rfc-writer", "reviewer", "tmux-shortcuts", "skill-rules"} {
		if _, ok := names[want]; !ok {
			t.Errorf("expected starter %q in manifest", want)
		}
	}
	if !names["style-guide"].Default {
		t.Error("style-guide should be a default starter")
	}
}

func TestManifest_AssetsExist(t *testing.T) {
	entries, err := Manifest()
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if _, err := assets.ReadFile("assets/" + e.Path); err != nil {
			t.Errorf("manifest entry %s points at missing asset %s: %v", e.Name, e.Path, err)
		}
	}
}

func TestInstall_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dst := t.TempDir()

	results, err := Install(dst, nil, false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	for _, r := range results {
		if r.Skipped {
			t.Errorf("nothing should be skipped in an empty project: %s", r.Entry.Name)
		}
	}

	// The shipped skills must parse with the loader.
	loaded, err := skills.Load(dst)
	if err != nil {
		t.Fatalf("loading installed skills: %v", err)
	}
	if _, ok := skills.ByName(loaded, "style-guide"); !ok {
		t.Error("expected style-guide installed and loadable")
	}
	if _, ok := skills.ByName(loaded, "rfc-writer"); !ok {
		t.Error("expected rfc-writer installed and loadable")
	}

	// The shipped rule file must parse and validate clean.
	rf, err := rules.Load(filepath.Join(dst, ".claude", rules.FileName))
	if err != nil {
		t.Fatalf("loading installed rules: %v", err)
	}
	if problems := rules.Validate(rf.Rules); len(problems) != 0 {
		t.Errorf("shipped rules should validate clean, got %v", problems)
	}

	// Non-default entries stay out.
	if _, err := os.Stat(filepath.Join(dst, ".claude", "agents", "reviewer.md")); !os.IsNotExist(err) {
		t.Error("reviewer agent is not a default and should not be installed")
	}
}

func TestInstall_Named(t *testing.T) {
	dst := t.TempDir()

	if _, err := Install(dst, []string{"reviewer", "tmux-shortcuts"}, false); err != nil {
		t.Fatalf("install: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dst, ".claude", "agents", "reviewer.md")); err != nil {
		t.Error("expected reviewer agent installed")
	}
	data, err := os.ReadFile(filepath.Join(dst, "docs", "tmux-shortcuts.md"))
	if err != nil {
		t.Fatalf("expected tmux doc installed: %v", err)
	}
	if !strings.Contains(string(data), "# tmux Shortcuts") {
		t.Error("unexpected tmux doc content")
	}
}

func TestInstall_UnknownName(t *testing.T) {
	if _, err := Install(t.TempDir(), []string{"no-such-starter"}, false); err == nil {
		t.Error("expected error for unknown starter name")
	}
}

func TestInstall_SkipsExistingWithoutForce(t *testing.T) {
	dst := t.TempDir()
	target := filepath.Join(dst, ".claude", "skills", "style-guide", "SKILL.md")
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("mine"), 0644); err != nil {
		t.Fatal(err)
	}

	results, err := Install(dst, []string{"style-guide"}, false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if len(results) != 1 || !results[0].Skipped {
		t.Fatalf("expected skip result, got %+v", results)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "mine" {
		t.Error("existing file should be untouched without force")
	}

	results, err = Install(dst, []string{"style-guide"}, true)
	if err != nil {
		t.Fatalf("forced install: %v", err)
	}
	if results[0].Skipped {
		t.Error("force should overwrite")
	}
	data, _ = os.ReadFile(target)
	if string(data) == "mine" {
		t.Error("force should replace content")
	}
}
