// Package main is the entry point for the claude-skills CLI.
package main

import "github.com/anthropics/claude-skills-go/internal/cli"

func main() {
	cli.Execute()
}
