package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/agents"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect agent personas",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded agents across scopes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := agents.Load(cwd)
		if err != nil {
			return err
		}

		if flagJSON {
			return writeJSON(cmd, loaded)
		}

		if len(loaded) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no agents found")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSCOPE\tMODEL\tDESCRIPTION")
		for _, a := range loaded {
			model := a.Model
			if model == "" {
				model = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, a.Scope, model, a.Description)
		}
		return w.Flush()
	},
}

var agentsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one agent's definition and prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := agents.Load(cwd)
		if err != nil {
			return err
		}
		a, ok := agents.ByName(loaded, args[0])
		if !ok {
			return fmt.Errorf("no such agent: %s", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:        %s\n", a.Name)
		fmt.Fprintf(out, "description: %s\n", a.Description)
		if a.Model != "" {
			fmt.Fprintf(out, "model:       %s\n", a.Model)
		}
		if len(a.Tools) != 0 {
			fmt.Fprintf(out, "tools:       %s\n", strings.Join(a.Tools, ", "))
		}
		fmt.Fprintf(out, "source:      %s (%s)\n\n", a.FilePath, a.Scope)
		fmt.Fprintln(out, a.Prompt)
		return nil
	},
}

var agentsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate agent definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		loaded, err := agents.Load(cwd)
		if err != nil {
			return err
		}

		problems := agents.Validate(loaded)
		if len(problems) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d agents OK\n", len(loaded))
			return nil
		}
		for _, p := range problems {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Source, p.Message)
		}
		return fmt.Errorf("%d problems", len(problems))
	},
}

func init() {
	agentsCmd.AddCommand(agentsListCmd, agentsShowCmd, agentsValidateCmd)
	rootCmd.AddCommand(agentsCmd)
}
