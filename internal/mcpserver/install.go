package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ConfigFileName is the project MCP config file Claude Code reads.
const ConfigFileName = ".mcp.json"

// Install registers this server in the project's .mcp.json. Other server
// entries survive untouched.
func Install(cwd string) (string, error) {
	path := filepath.Join(cwd, ConfigFileName)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = []byte("{}\n")
	} else if err != nil {
		return "", fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	entry := map[string]interface{}{
		"command": "claude-skills",
		"args":    []string{"mcp", "serve"},
	}
	raw, err = sjson.SetBytes(raw, "mcpServers."+ServerName, entry)
	if err != nil {
		return "", fmt.Errorf("adding server entry: %w", err)
	}

	if err := writeConfig(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// Uninstall removes this server's entry from .mcp.json.
func Uninstall(cwd string) (string, error) {
	path := filepath.Join(cwd, ConfigFileName)

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", ConfigFileName, err)
	}

	raw, err = sjson.DeleteBytes(raw, "mcpServers."+ServerName)
	if err != nil {
		return "", fmt.Errorf("removing server entry: %w", err)
	}

	if m := gjson.GetBytes(raw, "mcpServers"); m.IsObject() && len(m.Map()) == 0 {
		if raw, err = sjson.DeleteBytes(raw, "mcpServers"); err != nil {
			return "", fmt.Errorf("removing empty section: %w", err)
		}
	}

	if err := writeConfig(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

func writeConfig(path string, raw []byte) error {
	if len(raw) == 0 || raw[len(raw)-1] != '\n' {
		raw = append(raw, '\n')
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ConfigFileName, err)
	}
	return nil
}
