package audit

import (
	"fmt"
	"strconv"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"

	"github.com/spf13/cobra"
)

// ShowCommand returns a command that prints one recorded call with its
// arguments.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded tool call",
		Long: `Show one recorded tool call with the arguments it was invoked with.
Secrets such as public keys and user data are stored redacted.

Examples:
  hcloud-mcp audit show 17
  hcloud-mcp audit show 17 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid entry ID %q", args[0])
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entry, err := repo.Get(id)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		return printJSON(cmd, toJSON(*entry))
	case "table":
		return printEntryDetail(cmd, entry)
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}
