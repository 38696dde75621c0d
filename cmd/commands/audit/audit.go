package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the record of mutating tool calls",
		Long: `Every call of a tool that changes Hetzner Cloud state is recorded with its
sanitized arguments, the resource it acted on, its outcome and the error
returned to the client, if any.

The log is stored in ~/.config/hcloud-mcp/hcloud-mcp.db. Disable recording
with 'hcloud-mcp config set audit false'.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
