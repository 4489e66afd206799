package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/anthropics/claude-skills-go/internal/config"
)

// binaryName is the command marker install/uninstall looks for. Uninstall
// removes only entries that reference it, leaving foreign hooks alone.
const binaryName = "claude-skills"

// hookEvents maps Claude Code settings hook keys to the argv event names.
var hookEvents = []struct {
	settingsKey string
	event       string
	matcher     string
}{
	{"UserPromptSubmit", EventUserPromptSubmit, ""},
	{"PreToolUse", EventPreToolUse, "*"},
	{"SessionStart", EventSessionStart, ""},
}

// Install inserts hook entries into the settings file for the given scope.
// Edits go through sjson so settings this tool doesn't know about survive
// byte-for-byte. Installing twice is a no-op.
func Install(cwd string, project bool) (string, error) {
	path, err := settingsPath(cwd, project)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = []byte("{}\n")
	} else if err != nil {
		return "", fmt.Errorf("reading settings: %w", err)
	}

	for _, he := range hookEvents {
		if hasOwnEntry(raw, he.settingsKey) {
			continue
		}

		entry := map[string]interface{}{
			"hooks": []map[string]string{{
				"type":    "command",
				"command": fmt.Sprintf("%s hook %s", binaryName, he.event),
			}},
		}
		if he.matcher != "" {
			entry["matcher"] = he.matcher
		}

		raw, err = sjson.SetBytes(raw, "hooks."+he.settingsKey+".-1", entry)
		if err != nil {
			return "", fmt.Errorf("adding %s hook: %w", he.settingsKey, err)
		}
	}

	if err := writeSettings(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// Uninstall removes hook entries whose command references this binary.
func Uninstall(cwd string, project bool) (string, error) {
	path, err := settingsPath(cwd, project)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading settings: %w", err)
	}

	for _, he := range hookEvents {
		key := "hooks." + he.settingsKey
		entries := gjson.GetBytes(raw, key)
		if !entries.IsArray() {
			continue
		}

		var kept []string
		entries.ForEach(func(_, entry gjson.Result) bool {
			if !entryIsOwn(entry) {
				kept = append(kept, entry.Raw)
			}
			return true
		})

		if len(kept) == 0 {
			raw, err = sjson.DeleteBytes(raw, key)
		} else {
			raw, err = sjson.SetRawBytes(raw, key, []byte("["+strings.Join(kept, ",")+"]"))
		}
		if err != nil {
			return "", fmt.Errorf("removing %s hooks: %w", he.settingsKey, err)
		}
	}

	// Drop the hooks section entirely once it is empty.
	if h := gjson.GetBytes(raw, "hooks"); h.IsObject() && len(h.Map()) == 0 {
		if raw, err = sjson.DeleteBytes(raw, "hooks"); err != nil {
			return "", fmt.Errorf("removing hooks section: %w", err)
		}
	}

	if err := writeSettings(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// hasOwnEntry reports whether any entry under the settings key already
// invokes this binary.
func hasOwnEntry(raw []byte, settingsKey string) bool {
	found := false
	gjson.GetBytes(raw, "hooks."+settingsKey).ForEach(func(_, entry gjson.Result) bool {
		if entryIsOwn(entry) {
			found = true
			return false
		}
		return true
	})
	return found
}

func entryIsOwn(entry gjson.Result) bool {
	own := false
	entry.Get("hooks").ForEach(func(_, h gjson.Result) bool {
		if strings.Contains(h.Get("command").String(), binaryName) {
			own = true
			return false
		}
		return true
	})
	return own
}

func settingsPath(cwd string, project bool) (string, error) {
	if project {
		return config.ProjectSettingsPath(cwd), nil
	}
	return config.UserSettingsPath()
}

func writeSettings(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if len(raw) == 0 || raw[len(raw)-1] != '\n' {
		raw = append(raw, '\n')
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
