package cli

import (
	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse skills, agents, and library docs interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}
		return tui.Browse(cmd.Context(), cwd, roots, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
