package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/config"
	"github.com/anthropics/claude-skills-go/internal/engine"
)

var (
	activatePrompt string
	activateFiles  []string
)

var activateCmd = &cobra.Command{
	Use:   "activate",
	Short: "Run the activation engine against a prompt and file paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		if activatePrompt == "" && len(activateFiles) == 0 {
			return fmt.Errorf("nothing to match: provide --prompt and/or --file")
		}

		cwd, err := projectDir()
		if err != nil {
			return err
		}
		rs, err := effectiveRules(cwd)
		if err != nil {
			return err
		}
		settings, err := config.LoadSettings(cwd)
		if err != nil {
			return err
		}

		eng := engine.New(rs, engine.Limits{
			MaxActivations: settings.Skills.MaxActivations,
			MinScore:       settings.Skills.MinScore,
			Disabled:       settings.Skills.Disabled,
		})
		acts := eng.Match(engine.Query{Prompt: activatePrompt, Files: activateFiles})

		if flagJSON {
			type row struct {
				Skill           string   `json:"skill"`
				Priority        int      `json:"priority"`
				Score           float64  `json:"score"`
				MatchedKeywords []string `json:"matchedKeywords,omitempty"`
				MatchedPaths    []string `json:"matchedPaths,omitempty"`
			}
			rows := make([]row, 0, len(acts))
			for _, a := range acts {
				rows = append(rows, row{a.Rule.Skill, a.Rule.Priority, a.Score, a.MatchedKeywords, a.MatchedPaths})
			}
			return writeJSON(cmd, rows)
		}

		if len(acts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no activations")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tPRIORITY\tSCORE\tMATCHED")
		for _, a := range acts {
			matched := append(append([]string{}, a.MatchedKeywords...), a.MatchedPaths...)
			fmt.Fprintf(w, "%s\t%d\t%.1f\t%s\n", a.Rule.Skill, a.Rule.Priority, a.Score, strings.Join(matched, ","))
		}
		return w.Flush()
	},
}

func init() {
	activateCmd.Flags().StringVar(&activatePrompt, "prompt", "", "prompt text to match")
	activateCmd.Flags().StringArrayVar(&activateFiles, "file", nil, "file path to match (repeatable)")
	rootCmd.AddCommand(activateCmd)
}
