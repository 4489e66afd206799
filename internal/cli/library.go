package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/library"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse the markdown reference library",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents, most recently modified first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}
		idx, err := library.Build(cmd.Context(), roots)
		if err != nil {
			return err
		}

		if flagJSON {
			return writeJSON(cmd, idx.Docs)
		}
		if len(idx.Docs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no documents found")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TITLE\tPATH\tHEADINGS\tTABLES")
		for _, d := range idx.Docs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", d.Title, d.Rel, len(d.Headings), d.Tables)
		}
		return w.Flush()
	},
}

var librarySearchLimit int

var librarySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search documents by title and headings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}
		idx, err := library.Build(cmd.Context(), roots)
		if err != nil {
			return err
		}

		results := library.Search(idx, args[0])
		if librarySearchLimit > 0 && len(results) > librarySearchLimit {
			results = results[:librarySearchLimit]
		}

		if flagJSON {
			return writeJSON(cmd, results)
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no matches")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCORE\tTITLE\tPATH")
		for _, r := range results {
			fmt.Fprintf(w, "%d\t%s\t%s\n", r.Score, r.Doc.Title, r.Doc.Rel)
		}
		return w.Flush()
	},
}

var libraryShowRaw bool

var libraryShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Show one document by its relative path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}
		idx, err := library.Build(cmd.Context(), roots)
		if err != nil {
			return err
		}

		doc, ok := idx.ByRel(args[0])
		if !ok {
			return fmt.Errorf("no such document: %s", args[0])
		}
		content, err := library.Show(doc.Path, libraryShowRaw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	},
}

func init() {
	librarySearchCmd.Flags().IntVar(&librarySearchLimit, "limit", 10, "maximum results")
	libraryShowCmd.Flags().BoolVar(&libraryShowRaw, "raw", false, "print raw markdown without rendering")
	libraryCmd.AddCommand(libraryListCmd, librarySearchCmd, libraryShowCmd)
	rootCmd.AddCommand(libraryCmd)
}
