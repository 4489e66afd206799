// Package cli wires the claude-skills command surface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/config"
	"github.com/anthropics/claude-skills-go/internal/logging"
	"github.com/anthropics/claude-skills-go/internal/version"
)

var (
	flagProjectDir string
	flagConfigFile string
	flagLogLevel   string
	flagJSON       bool

	toolConfig *config.ToolConfig
)

var rootCmd = &cobra.Command{
	Use:   "claude-skills",
	Short: "Manage and dispatch the Claude Code guidance corpus",
	Long: `claude-skills manages a project's guidance corpus — skills, agents,
activation rules, and a markdown reference library — and dispatches it
to Claude Code through lifecycle hooks or an MCP server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		hookMode := isHookEvent(cmd)

		cfg, cfgErr := config.LoadToolConfig(flagConfigFile)
		if cfgErr != nil {
			if !hookMode {
				return cfgErr
			}
			// Hook events must always reach the protocol handler, even
			// with a broken tool config; run on defaults instead.
			cfg = config.Default()
		}
		toolConfig = cfg

		level := toolConfig.LogLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		// Hook and MCP modes own stdout/stderr as protocol channels, so
		// logs stay in the file.
		mirror := cmd.Name() != "serve" && !hookMode
		err := logging.Setup(logging.Options{Level: level, File: toolConfig.LogFile, MirrorStderr: mirror})
		if err != nil {
			if !hookMode {
				return err
			}
			// Logging is unusable; keep stderr clean for the protocol.
			log.SetOutput(io.Discard)
		}
		if cfgErr != nil {
			log.Warnf("tool config unavailable, using defaults: %v", cfgErr)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.Long()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagProjectDir, "project-dir", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "tool config file (default: ~/.claude-skills/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "machine-readable output where supported")
}

// isHookEvent reports whether cmd is one of the hook event subcommands.
func isHookEvent(cmd *cobra.Command) bool {
	if cmd.Parent() == nil || cmd.Parent().Name() != "hook" {
		return false
	}
	switch cmd.Name() {
	case "user-prompt-submit", "pre-tool-use", "session-start":
		return true
	}
	return false
}

// projectDir resolves the project directory flag, defaulting to cwd.
func projectDir() (string, error) {
	if flagProjectDir != "" {
		return filepath.Abs(flagProjectDir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

// libraryRoots resolves library roots from settings and the tool config,
// falling back to the project docs directory.
func libraryRoots(cwd string) ([]string, error) {
	settings, err := config.LoadSettings(cwd)
	if err != nil {
		return nil, err
	}

	var roots []string
	add := func(rs []string) {
		for _, r := range rs {
			if !filepath.IsAbs(r) {
				r = filepath.Join(cwd, r)
			}
			roots = append(roots, r)
		}
	}
	add(settings.Skills.LibraryRoots)
	add(toolConfig.LibraryRoots)

	if len(roots) == 0 {
		roots = []string{filepath.Join(cwd, "docs")}
	}
	return roots, nil
}
