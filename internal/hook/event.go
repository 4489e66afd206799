// Package hook implements the shell-invoked hook side of the Claude Code
// lifecycle contract: the binary reads an event JSON from stdin, runs the
// activation engine, and writes a hook response JSON to stdout.
//
// Hook mode must never break the assistant. Internal errors are logged, a
// valid empty response is still written, and the exit code stays 0; only a
// deliberate block exits 2.
package hook

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Event names as Claude Code passes them on argv.
const (
	EventUserPromptSubmit = "user-prompt-submit"
	EventPreToolUse       = "pre-tool-use"
	EventSessionStart     = "session-start"
)

// Event is the hook input decoded from stdin.
type Event struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
	CWD            string          `json:"cwd,omitempty"`
	HookEventName  string          `json:"hook_event_name,omitempty"`
	Prompt         string          `json:"prompt,omitempty"`
	ToolName       string          `json:"tool_name,omitempty"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
}

// Output is the hook response encoded to stdout.
type Output struct {
	Decision           string          `json:"decision,omitempty"`
	Reason             string          `json:"reason,omitempty"`
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput carries the event-specific response payload.
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext,omitempty"`
}

// toolInputPathKeys are the tool_input fields that carry file paths.
var toolInputPathKeys = []string{"file_path", "path", "notebook_path"}

// ExtractPaths pulls candidate file paths from a tool_input payload:
// the well-known path fields, per-edit file paths, and tokens of a
// command string that look like paths.
func ExtractPaths(toolInput json.RawMessage) []string {
	if len(toolInput) == 0 {
		return nil
	}

	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, key := range toolInputPathKeys {
		if v := gjson.GetBytes(toolInput, key); v.Type == gjson.String {
			add(v.String())
		}
	}

	gjson.GetBytes(toolInput, "edits.#.file_path").ForEach(func(_, v gjson.Result) bool {
		add(v.String())
		return true
	})

	if cmd := gjson.GetBytes(toolInput, "command"); cmd.Type == gjson.String {
		for _, tok := range strings.Fields(cmd.String()) {
			if looksLikePath(tok) {
				add(tok)
			}
		}
	}

	return paths
}

// looksLikePath reports whether a shell token plausibly names a file:
// it contains a path separator or a file extension, and is not a flag.
func looksLikePath(tok string) bool {
	if tok == "" || strings.HasPrefix(tok, "-") {
		return false
	}
	if strings.ContainsAny(tok, "$<>|&;(){}") {
		return false
	}
	if strings.Contains(tok, "://") {
		return false
	}
	if strings.ContainsRune(tok, '/') {
		return true
	}
	// bare name with an extension, e.g. Makefile.am or main.go
	if idx := strings.LastIndexByte(tok, '.'); idx > 0 && idx < len(tok)-1 {
		return true
	}
	return false
}
