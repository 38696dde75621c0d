package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"

	"github.com/spf13/cobra"
)

const timeFormat = "2006-01-02 15:04:05"

// entryJSON is the JSON form of an entry. Arguments are emitted as an
// object rather than the stored string.
type entryJSON struct {
	ID           int64           `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Tool         string          `json:"tool"`
	Arguments    json.RawMessage `json:"arguments,omitempty"`
	ResourceType string          `json:"resource_type,omitempty"`
	ResourceID   string          `json:"resource_id,omitempty"`
	ResourceName string          `json:"resource_name,omitempty"`
	Outcome      string          `json:"outcome"`
	Error        string          `json:"error,omitempty"`
	DurationMs   int64           `json:"duration_ms"`
}

func toJSON(e auditlog.Entry) entryJSON {
	out := entryJSON{
		ID:           e.ID,
		Timestamp:    e.Timestamp,
		Tool:         e.Tool,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		ResourceName: e.ResourceName,
		Outcome:      e.Outcome,
		Error:        e.Detail,
		DurationMs:   e.DurationMs,
	}
	if json.Valid([]byte(e.Args)) {
		out.Arguments = json.RawMessage(e.Args)
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printEntryDetail prints a vertical key-value view of one entry followed
// by its arguments, one per line in key order.
func printEntryDetail(cmd *cobra.Command, e *auditlog.Entry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "  ID:\t%d\n", e.ID)
	fmt.Fprintf(w, "  Time:\t%s\n", e.Timestamp.Local().Format(timeFormat))
	fmt.Fprintf(w, "  Tool:\t%s\n", e.Tool)
	if r := e.Resource(); r != "" {
		fmt.Fprintf(w, "  Resource:\t%s\n", r)
	}
	fmt.Fprintf(w, "  Outcome:\t%s\n", e.Outcome)
	fmt.Fprintf(w, "  Duration:\t%s\n", formatDuration(e.DurationMs))
	if e.Failed() {
		fmt.Fprintf(w, "  Error:\t%s\n", e.Detail)
	}

	args, err := e.Arguments()
	if err != nil {
		fmt.Fprintf(w, "  Arguments:\t%s\n", e.Args)
		return w.Flush()
	}
	if len(args) == 0 {
		fmt.Fprintf(w, "  Arguments:\t-\n")
		return w.Flush()
	}

	fmt.Fprintln(w, "  Arguments:\t")
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := json.Marshal(args[k])
		fmt.Fprintf(w, "    %s:\t%s\n", k, v)
	}
	return w.Flush()
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

// parseAge parses a look-back window such as "30d", "12h" or "90m".
func parseAge(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	var d time.Duration
	if before, ok := strings.CutSuffix(input, "d"); ok {
		days, err := strconv.Atoi(before)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
		d = time.Duration(days) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(input); err != nil {
			return 0, fmt.Errorf("invalid duration %q", input)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", input)
	}
	return d, nil
}

// parseResource splits a --resource value of the form TYPE or TYPE:ID.
func parseResource(input string) (resourceType, id string, err error) {
	resourceType, id, _ = strings.Cut(strings.TrimSpace(input), ":")
	switch resourceType {
	case "server", "volume", "firewall", "ssh_key":
	default:
		return "", "", fmt.Errorf("invalid resource %q: type must be one of server, volume, firewall, ssh_key", input)
	}
	if id != "" {
		if n, err := strconv.ParseInt(id, 10, 64); err != nil || n <= 0 {
			return "", "", fmt.Errorf("invalid resource %q: ID must be a positive integer", input)
		}
	}
	return resourceType, id, nil
}
