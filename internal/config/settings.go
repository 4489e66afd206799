// Package config handles settings loading and merging, plus the tool's own
// config.yaml.
//
// Settings are loaded from four levels (highest priority first):
//  1. Managed — /etc/claude/settings.json
//  2. Local — .claude/settings.local.json (gitignored, per-project)
//  3. Project — .claude/settings.json (committed, per-project)
//  4. User — ~/.claude/settings.json (global)
//
// CLI flags are applied after loading and override everything.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings holds merged configuration from all levels. Only the sections
// this tool owns are modeled; unknown fields in the settings files are
// untouched (install/uninstall operate on raw bytes for that reason).
type Settings struct {
	Skills SkillsSettings  `json:"skills,omitempty"`
	Hooks  json.RawMessage `json:"hooks,omitempty"`
}

// SkillsSettings is the "skills" section of settings.json.
type SkillsSettings struct {
	Enabled        *bool           `json:"enabled,omitempty"`
	MaxActivations int             `json:"maxActivations,omitempty"`
	MinScore       float64         `json:"minScore,omitempty"`
	Disabled       []string        `json:"disabled,omitempty"`
	LibraryRoots   []string        `json:"libraryRoots,omitempty"`
	Block          map[string]bool `json:"block,omitempty"`
}

// LoadSettings loads and merges settings from all levels.
// The merge order is user → project → local → managed (each level
// overrides the previous).
func LoadSettings(cwd string) (*Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Settings{}, nil // non-fatal: use empty settings
	}

	merged := &Settings{}
	for _, path := range SettingsPaths(home, cwd) {
		layer, err := loadSettingsFile(path)
		if err != nil {
			continue // file doesn't exist or is invalid — skip
		}
		merged = mergeSettings(merged, layer)
	}

	return merged, nil
}

// SettingsPaths returns settings file paths from lowest to highest priority.
func SettingsPaths(home, cwd string) []string {
	return []string{
		// 4. User (lowest priority)
		filepath.Join(home, ".claude", "settings.json"),
		// 3. Project
		filepath.Join(cwd, ".claude", "settings.json"),
		// 2. Local
		filepath.Join(cwd, ".claude", "settings.local.json"),
		// 1. Managed (highest priority)
		"/etc/claude/settings.json",
	}
}

// UserSettingsPath returns the path to the user-level settings file.
func UserSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// ProjectSettingsPath returns the path to the project-level settings file.
func ProjectSettingsPath(cwd string) string {
	return filepath.Join(cwd, ".claude", "settings.json")
}

func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// mergeSettings merges overlay on top of base.
// Scalar fields from overlay replace base when set; Disabled and
// LibraryRoots are concatenated; Block is deep-merged per key.
func mergeSettings(base, overlay *Settings) *Settings {
	result := &Settings{}

	result.Skills.Enabled = base.Skills.Enabled
	if overlay.Skills.Enabled != nil {
		result.Skills.Enabled = overlay.Skills.Enabled
	}

	result.Skills.MaxActivations = base.Skills.MaxActivations
	if overlay.Skills.MaxActivations != 0 {
		result.Skills.MaxActivations = overlay.Skills.MaxActivations
	}

	result.Skills.MinScore = base.Skills.MinScore
	if overlay.Skills.MinScore != 0 {
		result.Skills.MinScore = overlay.Skills.MinScore
	}

	// Disabled and LibraryRoots accumulate across levels.
	result.Skills.Disabled = appendUnique(base.Skills.Disabled, overlay.Skills.Disabled)
	result.Skills.LibraryRoots = appendUnique(base.Skills.LibraryRoots, overlay.Skills.LibraryRoots)

	// Block: deep merge, overlay wins per key.
	if len(base.Skills.Block) > 0 || len(overlay.Skills.Block) > 0 {
		result.Skills.Block = make(map[string]bool)
		for k, v := range base.Skills.Block {
			result.Skills.Block[k] = v
		}
		for k, v := range overlay.Skills.Block {
			result.Skills.Block[k] = v
		}
	}

	result.Hooks = base.Hooks
	if overlay.Hooks != nil {
		result.Hooks = overlay.Hooks
	}

	return result
}

func appendUnique(base, overlay []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range append(append([]string{}, base...), overlay...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// SaveUserSetting saves a single key/value pair to the user-level settings
// file. It reads the existing file, deep-merges the new value, and writes
// back, preserving keys this tool does not own.
func SaveUserSetting(key string, value interface{}) error {
	path, err := UserSettingsPath()
	if err != nil {
		return err
	}
	return saveSetting(path, key, value)
}

func saveSetting(path, key string, value interface{}) error {
	var settings map[string]interface{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			settings = make(map[string]interface{})
			if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
				return fmt.Errorf("creating settings directory: %w", mkErr)
			}
		} else {
			return fmt.Errorf("reading settings: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &settings); err != nil {
			// If the file is corrupt, start fresh rather than fail.
			settings = make(map[string]interface{})
		}
	}

	// nil means "remove the key".
	if value == nil {
		delete(settings, key)
	} else {
		settings[key] = value
	}

	output, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	output = append(output, '\n')

	if err := os.WriteFile(path, output, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// BoolVal returns the value of a *bool pointer, or the default if nil.
func BoolVal(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// BoolPtr returns a pointer to a bool value.
func BoolPtr(v bool) *bool {
	return &v
}
