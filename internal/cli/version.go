package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			return writeJSON(cmd, map[string]string{
				"version": version.Short(),
				"commit":  version.Commit,
				"go":      runtime.Version(),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "claude-skills %s (%s)\n", version.Long(), runtime.Version())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
