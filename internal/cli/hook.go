package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/hook"
)

var hookProject bool

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Claude Code hook integration",
}

// hookEventCmd builds the command for one lifecycle event. The event
// commands speak the hook protocol on stdin/stdout and own the exit code.
func hookEventCmd(event string) *cobra.Command {
	return &cobra.Command{
		Use:    event,
		Short:  fmt.Sprintf("Handle the %s hook event", event),
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := projectDir()
			if err != nil {
				cwd = ""
			}
			code := hook.Run(event, cwd, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the hook commands in Claude Code settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		path, err := hook.Install(cwd, hookProject)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hooks installed in %s\n", path)
		return nil
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove this tool's hook entries from Claude Code settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		path, err := hook.Uninstall(cwd, hookProject)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hooks removed from %s\n", path)
		return nil
	},
}

var hookStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the activation audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		stateDir, err := hook.DefaultStateDir()
		if err != nil {
			return err
		}
		stats, err := hook.ReadStats(stateDir)
		if err != nil {
			return err
		}

		if flagJSON {
			return writeJSON(cmd, stats)
		}
		if len(stats) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no activations recorded")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tCOUNT\tLAST")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%s\n", s.Skill, s.Count, s.Last.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	hookCmd.PersistentFlags().BoolVar(&hookProject, "project", false, "use project settings instead of user settings")
	hookCmd.AddCommand(
		hookEventCmd(hook.EventUserPromptSubmit),
		hookEventCmd(hook.EventPreToolUse),
		hookEventCmd(hook.EventSessionStart),
		hookInstallCmd,
		hookUninstallCmd,
		hookStatsCmd,
	)
	rootCmd.AddCommand(hookCmd)
}
