package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/library"
	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Inspect skill bundles",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded skills across scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := skills.Load(cwd)
		if err != nil {
			return err
		}

		if flagJSON {
			type row struct {
				Name        string   `json:"name"`
				Description string   `json:"description"`
				Scope       string   `json:"scope"`
				Keywords    []string `json:"keywords,omitempty"`
				Paths       []string `json:"paths,omitempty"`
				Priority    int      `json:"priority,omitempty"`
			}
			rows := make([]row, 0, len(loaded))
			for _, s := range loaded {
				rows = append(rows, row{s.Name, s.Description, s.Scope, s.Keywords, s.Paths, s.Priority})
			}
			return writeJSON(cmd, rows)
		}

		if len(loaded) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no skills found (run `claude-skills init`)")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCOPE\tDESCRIPTION")
		for _, s := range loaded {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Scope, s.Description)
		}
		return w.Flush()
	},
}

var skillsShowRaw bool

var skillsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one skill's content with imports resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := skills.Load(cwd)
		if err != nil {
			return err
		}
		s, ok := skills.ByName(loaded, args[0])
		if !ok {
			return fmt.Errorf("no such skill: %s", args[0])
		}

		content := skills.Render(s)
		if skillsShowRaw {
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), library.RenderMarkdown(content, 0))
		return nil
	},
}

var skillsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate rules compiled from skill frontmatter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := skills.Load(cwd)
		if err != nil {
			return err
		}

		problems := rules.Validate(skills.Rules(loaded))
		if len(problems) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d skills OK\n", len(loaded))
			return nil
		}
		for _, p := range problems {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Skill, p.Message)
		}
		return fmt.Errorf("%d problems", len(problems))
	},
}

// writeJSON renders v as indented JSON on the command's stdout.
func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	skillsShowCmd.Flags().BoolVar(&skillsShowRaw, "raw", false, "print raw markdown without rendering")
	skillsCmd.AddCommand(skillsListCmd, skillsShowCmd, skillsValidateCmd)
	rootCmd.AddCommand(skillsCmd)
}
