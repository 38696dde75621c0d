package audit

import (
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded tool calls",
		Long: `List recorded tool calls, newest first.

Examples:
  hcloud-mcp audit list
  hcloud-mcp audit list --failed --since 24h
  hcloud-mcp audit list --resource server:42
  hcloud-mcp audit list --tool delete_volume -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Maximum number of calls to show")
	cmd.Flags().String("tool", "", "Only calls of this tool")
	cmd.Flags().String("resource", "", "Only calls on a resource: TYPE or TYPE:ID (e.g. server:42)")
	cmd.Flags().Bool("failed", false, "Only calls that returned an error")
	cmd.Flags().String("since", "", "Only calls within this window (e.g. 24h, 7d)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	q := auditlog.Query{}

	q.Limit, _ = cmd.Flags().GetInt("limit")
	if q.Limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	q.Tool, _ = cmd.Flags().GetString("tool")
	q.FailedOnly, _ = cmd.Flags().GetBool("failed")

	if resource, _ := cmd.Flags().GetString("resource"); resource != "" {
		var err error
		if q.ResourceType, q.ResourceID, err = parseResource(resource); err != nil {
			return err
		}
	}
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		window, err := parseAge(since)
		if err != nil {
			return err
		}
		q.Since = time.Now().Add(-window)
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Find(q)
	if err != nil {
		return err
	}

	if output == "json" {
		out := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			out = append(out, toJSON(e))
		}
		return printJSON(cmd, out)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded tool calls match.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tTOOL\tRESOURCE\tDURATION\tRESULT")
	fmt.Fprintln(w, "--\t----\t----\t--------\t--------\t------")
	for _, e := range entries {
		resource := e.Resource()
		if resource == "" {
			resource = "-"
		}
		result := "ok"
		if e.Failed() {
			result = e.Detail
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.Timestamp.Local().Format(timeFormat),
			e.Tool,
			resource,
			formatDuration(e.DurationMs),
			result,
		)
	}
	return w.Flush()
}
