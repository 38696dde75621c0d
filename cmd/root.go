package cmd

import (
	"os"

	"nathanbeddoewebdev/hcloud-mcp/cmd/commands/audit"
	"nathanbeddoewebdev/hcloud-mcp/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/hcloud-mcp/cmd/commands/config"
	"nathanbeddoewebdev/hcloud-mcp/cmd/commands/serve"
	toolscmd "nathanbeddoewebdev/hcloud-mcp/cmd/commands/tools"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "hcloud-mcp",
		Short:   "An MCP server for the Hetzner Cloud API",
		Version: hetzner.Version,
		Long: `hcloud-mcp exposes Hetzner Cloud servers, firewalls, volumes and SSH keys
as Model Context Protocol tools, so an AI assistant can inspect and manage
them on your behalf.

It authenticates with the active context of the hcloud CLI.

Quick start:
  hcloud context create my-project     # store a token with the hcloud CLI
  hcloud-mcp auth status --verify      # check the token
  hcloud-mcp tools                     # see what is exposed
  hcloud-mcp serve                     # serve over stdio`,
	}

	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(toolscmd.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
