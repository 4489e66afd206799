package library

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Show reads a document and renders it for the terminal. With raw set, the
// file contents are returned unchanged. Rendering failures fall back to the
// raw content.
func Show(path string, raw bool) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content := string(data)
	if raw {
		return content, nil
	}
	return RenderMarkdown(content, termWidth()), nil
}

// RenderMarkdown converts markdown to styled ANSI output at the given width.
func RenderMarkdown(md string, width int) string {
	if width < 40 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4), // small margin for safety
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour often adds trailing newlines; trim for tighter display.
	return strings.TrimRight(out, "\n")
}

// termWidth returns the current terminal width, or 80 when stdout is not
// a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
