package tools

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/hcloud-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

// NewCommand returns the "tools" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools served over MCP",
		Long: `List every tool served by 'hcloud-mcp serve'.

Examples:
  hcloud-mcp tools
  hcloud-mcp tools -o json     # full definitions with input schemas`,
		Args:         cobra.NoArgs,
		RunE:         runTools,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	all := tools.New(nil, tools.Options{}).Tools()

	switch output {
	case "json":
		defs := make([]mcp.Tool, 0, len(all))
		for _, t := range all {
			defs = append(defs, t.Definition)
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(defs)
	case "table", "":
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	fmt.Fprintln(w, "----\t----\t-----------")
	for _, t := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Definition.Name, kind(t), t.Definition.Description)
	}
	return w.Flush()
}

func kind(t tools.Tool) string {
	hint := t.Definition.Annotations.DestructiveHint
	switch {
	case !t.Mutating:
		return "read"
	case hint != nil && *hint:
		return "destructive"
	default:
		return "write"
	}
}
