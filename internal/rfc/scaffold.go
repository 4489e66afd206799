package rfc

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const template = `# {{TITLE}}

**Author:** {{AUTHOR}}
**Status:** Draft
**Created:** {{DATE}}
**Version:** 0.1

## Summary

## Motivation

## Design

## Alternatives
`

// Scaffold renders a new RFC document from the template.
func Scaffold(title, author string) string {
	out := template
	out = strings.ReplaceAll(out, "{{TITLE}}", title)
	out = strings.ReplaceAll(out, "{{AUTHOR}}", author)
	out = strings.ReplaceAll(out, "{{DATE}}", time.Now().Format("2006-01-02"))
	return out
}

// New writes a scaffolded RFC to path. It refuses to overwrite an
// existing file.
func New(path, title, author string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(Scaffold(title, author)), 0644); err != nil {
		return fmt.Errorf("writing RFC: %w", err)
	}
	return nil
}
