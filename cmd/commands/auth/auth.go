package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Inspect the Hetzner Cloud credentials",
		Long: `Inspect the Hetzner Cloud credentials used by 'hcloud-mcp serve'.

The token is read from the active context of the hcloud CLI configuration
(~/.config/hcloud/cli.toml). Manage contexts with the hcloud CLI itself:
  hcloud context create <name>
  hcloud context use <name>`,
	}

	cmd.AddCommand(StatusCommand())

	return cmd
}
