package audit

import (
	"fmt"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"

	"github.com/spf13/cobra"
)

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded tool calls per tool",
		Long: `Summarize recorded tool calls per tool: how often each was called, how
often it failed, its average duration and when it was last called.

Examples:
  hcloud-mcp audit stats
  hcloud-mcp audit stats --since 7d -o json`,
		Args:         cobra.NoArgs,
		RunE:         runStats,
		SilenceUsage: true,
	}

	cmd.Flags().String("since", "", "Only calls within this window (e.g. 24h, 7d)")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	var since time.Time
	if raw, _ := cmd.Flags().GetString("since"); raw != "" {
		window, err := parseAge(raw)
		if err != nil {
			return err
		}
		since = time.Now().Add(-window)
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

	stats, err := repo.Stats(since)
	if err != nil {
		return err
	}

	if output == "json" {
		if stats == nil {
			stats = []auditlog.ToolStats{}
		}
		return printJSON(cmd, stats)
	}

	if len(stats) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded tool calls.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tCALLS\tFAILED\tAVG\tLAST CALL")
	fmt.Fprintln(w, "----\t-----\t------\t---\t---------")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
			s.Tool, s.Calls, s.Failures, formatDuration(s.AvgDurationMs), s.LastCall.Local().Format(timeFormat))
	}
	return w.Flush()
}
