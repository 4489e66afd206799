package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/anthropics/claude-skills-go/internal/embedded"
)

var (
	initAll   bool
	initForce bool
	initYes   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Install starter skills, rules, and docs into the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}

		names, err := chooseStarters()
		if err != nil {
			return err
		}
		if names != nil && len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing selected")
			return nil
		}

		results, err := embedded.Install(cwd, names, initForce)
		if err != nil {
			return err
		}

		for _, r := range results {
			if r.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "skipped %s (exists, use --force)\n", r.Path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", r.Path)
			}
		}
		return nil
	},
}

// chooseStarters picks which starters to install: everything with --all,
// the manifest defaults with --yes or without a TTY, otherwise an
// interactive multi-select.
func chooseStarters() ([]string, error) {
	entries, err := embedded.Manifest()
	if err != nil {
		return nil, err
	}

	if initAll {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name
		}
		return names, nil
	}
	if initYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, nil // Install picks the defaults
	}

	options := make([]huh.Option[string], len(entries))
	var selected []string
	for i, e := range entries {
		label := fmt.Sprintf("%s (%s)", e.Name, e.Kind)
		options[i] = huh.NewOption(label, e.Name).Selected(e.Default)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Starters to install").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selecting starters: %w", err)
	}
	if len(selected) == 0 {
		return []string{}, nil
	}
	return selected, nil
}

func init() {
	initCmd.Flags().BoolVar(&initAll, "all", false, "install every starter")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing files")
	initCmd.Flags().BoolVar(&initYes, "yes", false, "install the defaults without prompting")
	rootCmd.AddCommand(initCmd)
}
