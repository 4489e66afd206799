package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anthropics/claude-skills-go/internal/mcpserver"
	"github.com/anthropics/claude-skills-go/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the corpus as an MCP server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		srv, err := mcpserver.New(cwd, version.Short())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var mcpInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the server in the project's .mcp.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		path, err := mcpserver.Install(cwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "server registered in %s\n", path)
		return nil
	},
}

var mcpUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the server from the project's .mcp.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := projectDir()
		if err != nil {
			return err
		}
		path, err := mcpserver.Uninstall(cwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "server removed from %s\n", path)
		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd, mcpInstallCmd, mcpUninstallCmd)
	rootCmd.AddCommand(mcpCmd)
}
