package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/rfc"
)

var rfcCmd = &cobra.Command{
	Use:   "rfc",
	Short: "Scaffold and check RFC documents",
}

var (
	rfcNewTitle  string
	rfcNewAuthor string
)

var rfcNewCmd = &cobra.Command{
	Use:   "new <path>",
	Short: "Scaffold a new RFC",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := rfcNewTitle
		if title == "" {
			title = "Untitled"
		}
		author := rfcNewAuthor
		if author == "" {
			author = os.Getenv("USER")
		}

		if err := rfc.New(args[0], title, author); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", args[0])
		return nil
	},
}

var rfcCheckCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Validate RFC structure and metadata",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			problems := rfc.Check(rfc.Parse(string(data)))
			if len(problems) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", path)
				continue
			}
			failed++
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, p.Message)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents have problems", failed, len(args))
		}
		return nil
	},
}

var rfcOutlineCmd = &cobra.Command{
	Use:   "outline <path>",
	Short: "Print the heading tree with per-section element counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rfc.Outline(rfc.Parse(string(data))))
		return nil
	},
}

func init() {
	rfcNewCmd.Flags().StringVar(&rfcNewTitle, "title", "", "RFC title")
	rfcNewCmd.Flags().StringVar(&rfcNewAuthor, "author", "", "RFC author (default: $USER)")
	rfcCmd.AddCommand(rfcNewCmd, rfcCheckCmd, rfcOutlineCmd)
	rootCmd.AddCommand(rfcCmd)
}
