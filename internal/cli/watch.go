package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/lint"
	"github.com/anthropics/claude-skills-go/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-lint the corpus whenever it changes on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		roots, err := libraryRoots(cwd)
		if err != nil {
			return err
		}

		watchDirs := append([]string{filepath.Join(cwd, ".claude")}, roots...)
		if home, err := os.UserHomeDir(); err == nil {
			watchDirs = append(watchDirs, filepath.Join(home, ".claude"))
		}

		w, err := watch.New(watchDirs, 0)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go w.Run(ctx)

		out := cmd.OutOrStdout()
		relint := func() {
			problems, err := lint.Run(ctx, lint.Options{CWD: cwd, LibraryRoots: roots})
			if err != nil {
				fmt.Fprintf(out, "lint failed: %v\n", err)
				return
			}
			if len(problems) == 0 {
				fmt.Fprintln(out, "no problems found")
				return
			}
			lint.Write(out, problems)
		}

		fmt.Fprintf(out, "watching %s\n", cwd)
		relint()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				fmt.Fprintf(out, "\nchanged: %s\n", ev.Path)
				relint()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
