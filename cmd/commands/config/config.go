package config

import (
	"nathanbeddoewebdev/hcloud-mcp/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage hcloud-mcp configuration",
		Long: "View and modify persistent hcloud-mcp settings.\n\n" +
			"Configuration is stored at ~/.config/hcloud-mcp/config.json.\n" +
			"Flags and environment variables of 'serve' override these values.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
