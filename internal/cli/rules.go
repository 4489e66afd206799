package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/rules"
	"github.com/anthropics/claude-skills-go/internal/skills"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect activation rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List effective rules: rule files plus skill frontmatter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}

		rs, err := effectiveRules(cwd)
		if err != nil {
			return err
		}

		if flagJSON {
			type row struct {
				Skill    string   `json:"skill"`
				Keywords []string `json:"keywords,omitempty"`
				Paths    []string `json:"paths,omitempty"`
				Priority int      `json:"priority,omitempty"`
				Source   string   `json:"source,omitempty"`
			}
			rows := make([]row, 0, len(rs))
			for _, r := range rs {
				rows = append(rows, row{r.Skill, r.Keywords, r.Paths, r.Priority, r.Source})
			}
			return writeJSON(cmd, rows)
		}

		if len(rs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no rules found")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SKILL\tPRIORITY\tKEYWORDS\tPATHS\tSOURCE")
		for _, r := range rs {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				r.Skill, r.Priority,
				strings.Join(r.Keywords, ","), strings.Join(r.Paths, ","), r.Source)
		}
		return w.Flush()
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective rule set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}

		rs, err := effectiveRules(cwd)
		if err != nil {
			return err
		}

		problems := rules.Validate(rs)
		if len(problems) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d rules OK\n", len(rs))
			return nil
		}
		for _, p := range problems {
			if p.Skill != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Skill, p.Message)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), p.Message)
			}
		}
		return fmt.Errorf("%d problems", len(problems))
	},
}

var rulesCompileWrite bool

var rulesCompileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile skill frontmatter into a rule file",
	Long: `Compile the loaded skills' frontmatter (keywords, paths, priority)
into skill-rules.json form. Prints the result; --write saves it to the
project rule file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := skills.Load(cwd)
		if err != nil {
			return err
		}

		file := &rules.File{Version: 1, Rules: skills.Rules(loaded)}
		if rulesCompileWrite {
			path := rules.ProjectPath(cwd)
			if err := rules.Save(path, file); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rules)\n", path, len(file.Rules))
			return nil
		}
		return writeJSON(cmd, file)
	},
}

// effectiveRules is the engine's view: standalone rule files first, then
// rules compiled from skill frontmatter.
func effectiveRules(cwd string) ([]rules.Rule, error) {
	rs, err := rules.LoadAll(cwd)
	if err != nil {
		return nil, err
	}
	loaded, err := skills.Load(cwd)
	if err != nil {
		return nil, err
	}
	return append(rs, skills.Rules(loaded)...), nil
}

func init() {
	rulesCompileCmd.Flags().BoolVar(&rulesCompileWrite, "write", false, "write to the project rule file")
	rulesCmd.AddCommand(rulesListCmd, rulesValidateCmd, rulesCompileCmd)
	rootCmd.AddCommand(rulesCmd)
}
