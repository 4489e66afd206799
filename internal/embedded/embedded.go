// Package embedded ships the starter corpus compiled into the binary:
// example skills, an agent persona, a cheat sheet, and a default rule file,
// installed into a project by `claude-skills init`.
package embedded

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/anthropics/claude-skills-go/internal/rules"
)

//go:embed assets
var assets embed.FS

// Entry kinds.
const (
	KindSkill = "skill"
	KindAgent = "agent"
	KindDoc   = "doc"
	KindRules = "rules"
)

// Entry is one installable starter from the manifest.
type Entry struct {
	Name     string `yaml:"name"`
	Kind     string `yaml:"kind"`
	Path     string `yaml:"path"`
	Priority int    `yaml:"priority"`
	Default  bool   `yaml:"default"`
}

type manifest struct {
	Entries []Entry `yaml:"entries"`
}

var (
	manifestOnce sync.Once
	manifestData []Entry
	manifestErr  error
)

// Manifest returns the starter entries in manifest order.
func Manifest() ([]Entry, error) {
	manifestOnce.Do(func() {
		data, err := assets.ReadFile("assets/manifest.yaml")
		if err != nil {
			manifestErr = fmt.Errorf("reading embedded manifest: %w", err)
			return
		}
		var m manifest
		if err := yaml.Unmarshal(data, &m); err != nil {
			manifestErr = fmt.Errorf("parsing embedded manifest: %w", err)
			return
		}
		manifestData = m.Entries
	})
	return manifestData, manifestErr
}

// Result reports what happened to one entry during Install.
type Result struct {
	Entry   Entry
	Path    string
	Skipped bool // target existed and force was false
}

// Install writes the named starters into the project at dst. An empty names
// slice installs the manifest defaults. Existing files are skipped unless
// force is set.
func Install(dst string, names []string, force bool) ([]Result, error) {
	entries, err := Manifest()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var results []Result
	for _, e := range entries {
		if len(names) > 0 && !wanted[e.Name] {
			continue
		}
		if len(names) == 0 && !e.Default {
			continue
		}

		res, err := installEntry(dst, e, force)
		if err != nil {
			return results, fmt.Errorf("installing %s: %w", e.Name, err)
		}
		results = append(results, res)
	}

	if len(names) > 0 {
		for _, n := range names {
			if !hasEntry(entries, n) {
				return results, fmt.Errorf("unknown starter %q", n)
			}
		}
	}
	return results, nil
}

func hasEntry(entries []Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

// targetPath maps an entry kind to its place in the project tree.
func targetPath(dst string, e Entry) string {
	switch e.Kind {
	case KindSkill:
		return filepath.Join(dst, ".claude", "skills", e.Name, "SKILL.md")
	case KindAgent:
		return filepath.Join(dst, ".claude", "agents", e.Name+".md")
	case KindDoc:
		return filepath.Join(dst, "docs", filepath.Base(e.Path))
	case KindRules:
		return filepath.Join(dst, ".claude", rules.FileName)
	default:
		return filepath.Join(dst, filepath.Base(e.Path))
	}
}

func installEntry(dst string, e Entry, force bool) (Result, error) {
	target := targetPath(dst, e)
	res := Result{Entry: e, Path: target}

	if _, err := os.Stat(target); err == nil && !force {
		res.Skipped = true
		return res, nil
	}

	content, err := assets.ReadFile("assets/" + e.Path)
	if err != nil {
		return res, fmt.Errorf("reading embedded asset: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return res, fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(target, content, 0644); err != nil {
		return res, fmt.Errorf("writing file: %w", err)
	}
	return res, nil
}
