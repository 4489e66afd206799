package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSettings(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSettings_Merge(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	writeSettings(t, filepath.Join(home, ".claude", "settings.json"), `{
  "skills": {"maxActivations": 3, "disabled": ["user-off"], "block": {"a": true}}
}`)
	writeSettings(t, filepath.Join(cwd, ".claude", "settings.json"), `{
  "skills": {"maxActivations": 5, "disabled": ["proj-off"], "block": {"a": false, "b": true}}
}`)

	s, err := LoadSettings(cwd)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if s.Skills.MaxActivations != 5 {
		t.Errorf("expected project maxActivations to win, got %d", s.Skills.MaxActivations)
	}
	if len(s.Skills.Disabled) != 2 {
		t.Errorf("expected disabled lists concatenated, got %v", s.Skills.Disabled)
	}
	if s.Skills.Block["a"] != false || s.Skills.Block["b"] != true {
		t.Errorf("expected block map deep-merged with project winning, got %v", s.Skills.Block)
	}
}

func TestLoadSettings_LocalOverridesProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	writeSettings(t, filepath.Join(cwd, ".claude", "settings.json"), `{"skills": {"minScore": 1}}`)
	writeSettings(t, filepath.Join(cwd, ".claude", "settings.local.json"), `{"skills": {"minScore": 2.5}}`)

	s, err := LoadSettings(cwd)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Skills.MinScore != 2.5 {
		t.Errorf("expected local minScore 2.5, got %v", s.Skills.MinScore)
	}
}

func TestLoadSettings_MissingFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	s, err := LoadSettings(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Skills.MaxActivations != 0 || s.Skills.Enabled != nil {
		t.Errorf("expected zero settings, got %+v", s)
	}
}

func TestLoadSettings_InvalidFileSkipped(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	writeSettings(t, filepath.Join(home, ".claude", "settings.json"), `{"skills": {"maxActivations": 7}}`)
	writeSettings(t, filepath.Join(cwd, ".claude", "settings.json"), `{corrupt`)

	s, err := LoadSettings(cwd)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Skills.MaxActivations != 7 {
		t.Errorf("expected valid layer kept, got %d", s.Skills.MaxActivations)
	}
}

func TestSaveUserSetting_PreservesUnknownKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".claude", "settings.json")
	writeSettings(t, path, `{"model": "sonnet", "skills": {"maxActivations": 1}}`)

	if err := SaveUserSetting("skills", map[string]interface{}{"maxActivations": 9}); err != nil {
		t.Fatalf("SaveUserSetting: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"model": "sonnet"`) {
		t.Errorf("unknown key should survive, got %s", out)
	}
	if !strings.Contains(out, `"maxActivations": 9`) {
		t.Errorf("new value missing, got %s", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("expected trailing newline")
	}
}

func TestSaveUserSetting_RemoveKey(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".claude", "settings.json")
	writeSettings(t, path, `{"skills": {}, "other": 1}`)

	if err := SaveUserSetting("skills", nil); err != nil {
		t.Fatalf("SaveUserSetting: %v", err)
	}

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "skills") {
		t.Errorf("expected key removed, got %s", data)
	}
}

func TestLoadToolConfig_Defaults(t *testing.T) {
	cfg, err := LoadToolConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.LogLevel)
	}
}

func TestLoadToolConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: debug\nlibrary_roots:\n  - /docs/cheatsheets\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadToolConfig(path)
	if err != nil {
		t.Fatalf("LoadToolConfig: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.LogLevel)
	}
	if len(cfg.LibraryRoots) != 1 || cfg.LibraryRoots[0] != "/docs/cheatsheets" {
		t.Errorf("unexpected library roots: %v", cfg.LibraryRoots)
	}
}
