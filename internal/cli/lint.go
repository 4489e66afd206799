package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/lint"
)

var lintRFCPaths []string

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Run structural checks over the guidance corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}

		problems, err := lint.Run(cmd.Context(), lint.Options{
			CWD:          cwd,
			LibraryRoots: roots,
			RFCPaths:     lintRFCPaths,
		})
		if err != nil {
			return err
		}

		if flagJSON {
			if err := lint.WriteJSON(cmd.OutOrStdout(), problems); err != nil {
				return err
			}
		} else if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no problems found")
		} else {
			lint.Write(cmd.OutOrStdout(), problems)
		}

		if lint.HasErrors(problems) {
			return fmt.Errorf("lint found errors")
		}
		return nil
	},
}

func init() {
	lintCmd.Flags().StringArrayVar(&lintRFCPaths, "rfc", nil, "RFC document to check (repeatable)")
	rootCmd.AddCommand(lintCmd)
}
