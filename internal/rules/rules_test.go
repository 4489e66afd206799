package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `{
  "version": 1,
  "rules": [
    {"skill": "tmux-shortcuts", "keywords": ["tmux", "pane"], "priority": 5},
    {"skill": "style-guide", "paths": ["**/*.go"]}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(f.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(f.Rules))
	}
	if f.Rules[0].Skill != "tmux-shortcuts" {
		t.Errorf("expected skill 'tmux-shortcuts', got %q", f.Rules[0].Skill)
	}
	if f.Rules[0].Source != path {
		t.Errorf("expected Source %q, got %q", path, f.Rules[0].Source)
	}
	if f.Rules[0].Priority != 5 {
		t.Errorf("expected priority 5, got %d", f.Rules[0].Priority)
	}
}

func TestLoad_DropsEmptyKeywords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `{"version": 1, "rules": [{"skill": "s", "keywords": ["ok", "", "  ", "also"]}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := f.Rules[0].Keywords
	if len(got) != 2 || got[0] != "ok" || got[1] != "also" {
		t.Errorf("expected empty keywords dropped, got %v", got)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadAll_MissingFilesNotErrors(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("HOME", t.TempDir())

	rs, err := LoadAll(cwd)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rs) != 0 {
		t.Errorf("expected no rules, got %d", len(rs))
	}
}

func TestLoadAll_ProjectOverridesUser(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cwd := t.TempDir()

	userDir := filepath.Join(home, ".claude")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	userRules := `{"version": 1, "rules": [
  {"skill": "shared", "keywords": ["user"]},
  {"skill": "user-only", "keywords": ["solo"]}
]}`
	if err := os.WriteFile(filepath.Join(userDir, FileName), []byte(userRules), 0644); err != nil {
		t.Fatal(err)
	}

	projDir := filepath.Join(cwd, ".claude")
	if err := os.MkdirAll(projDir, 0755); err != nil {
		t.Fatal(err)
	}
	projRules := `{"version": 1, "rules": [{"skill": "shared", "keywords": ["project"]}]}`
	if err := os.WriteFile(filepath.Join(projDir, FileName), []byte(projRules), 0644); err != nil {
		t.Fatal(err)
	}

	rs, err := LoadAll(cwd)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(rs) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rs))
	}

	for _, r := range rs {
		if r.Skill == "shared" && (len(r.Keywords) != 1 || r.Keywords[0] != "project") {
			t.Errorf("expected project rule to win for 'shared', got keywords %v", r.Keywords)
		}
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".claude", FileName)

	f := &File{
		Version: 1,
		Rules: []Rule{
			{Skill: "ffmpeg-notes", Keywords: []string{"ffmpeg", "transcode"}, Priority: 3},
		},
	}
	if err := Save(path, f); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if len(loaded.Rules) != 1 || loaded.Rules[0].Skill != "ffmpeg-notes" {
		t.Errorf("round trip mismatch: %+v", loaded.Rules)
	}

	// File should end with a trailing newline.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[len(data)-1] != '\n' {
		t.Error("expected trailing newline")
	}
}

func TestValidate(t *testing.T) {
	rs := []Rule{
		{Skill: "", Keywords: []string{"x"}},                       // no skill name
		{Skill: "dead-rule"},                                       // no keywords, no paths
		{Skill: "bad-pattern", Paths: []string{"[unclosed"}},       // invalid doublestar
		{Skill: "ok", Keywords: []string{"fine"}},                  // valid
		{Skill: "dup", Keywords: []string{"a"}},                    // duplicate 1
		{Skill: "dup", Keywords: []string{"b"}},                    // duplicate 2
		{Skill: "empty-kw", Keywords: []string{"", "real"}, Paths: nil}, // empty keyword
	}

	problems := Validate(rs)

	want := map[string]bool{
		"rule has no skill name": false,
		"can never fire":         false,
		"invalid path pattern":   false,
		"empty keyword":          false,
		"last wins":              false,
	}
	for _, p := range problems {
		for key := range want {
			if containsSub(p.Message, key) {
				want[key] = true
			}
		}
	}
	for key, found := range want {
		if !found {
			t.Errorf("expected a problem mentioning %q, problems: %v", key, problems)
		}
	}
}

func TestValidate_CleanRules(t *testing.T) {
	rs := []Rule{
		{Skill: "a", Keywords: []string{"one"}},
		{Skill: "b", Paths: []string{"src/**/*.go"}},
	}
	if problems := Validate(rs); len(problems) != 0 {
		t.Errorf("expected no problems, got %v", problems)
	}
}

func containsSub(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
