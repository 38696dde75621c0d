package audit

import (
	"fmt"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove old recorded tool calls",
		Long: `Remove recorded tool calls older than a window, beyond a count of the
most recent calls, or both. With both flags a call is removed when either
applies.

Examples:
  hcloud-mcp audit prune --older-than 30d
  hcloud-mcp audit prune --keep 1000
  hcloud-mcp audit prune --older-than 90d --keep 5000`,
		Args:         cobra.NoArgs,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove calls older than this window (e.g. 30d, 72h)")
	cmd.Flags().Int("keep", 0, "Keep only this many of the most recent calls")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	var ret auditlog.Retention

	if raw, _ := cmd.Flags().GetString("older-than"); raw != "" {
		age, err := parseAge(raw)
		if err != nil {
			return err
		}
		ret.Before = time.Now().Add(-age)
	}
	if cmd.Flags().Changed("keep") {
		ret.Keep, _ = cmd.Flags().GetInt("keep")
		if ret.Keep <= 0 {
			return fmt.Errorf("--keep must be greater than 0")
		}
	}
	if ret.Before.IsZero() && ret.Keep == 0 {
		return fmt.Errorf("one of --older-than or --keep is required")
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(ret)
	if err != nil {
		return err
	}

	noun := "calls"
	if removed == 1 {
		noun = "call"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d recorded tool %s.\n", removed, noun)
	return nil
}
