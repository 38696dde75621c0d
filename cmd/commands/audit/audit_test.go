package audit

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"
	"nathanbeddoewebdev/hcloud-mcp/internal/database"
)

// seed points the audit log at a temp database and writes entries to it.
// It returns the entries with their assigned IDs.
func seed(t *testing.T, entries ...auditlog.Entry) []auditlog.Entry {
	t.Helper()
	database.SetPath(filepath.Join(t.TempDir(), "audit.db"))
	t.Cleanup(database.ResetPath)

	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("failed to open audit log: %v", err)
	}
	defer repo.Close()

	for i := range entries {
		if err := repo.Save(&entries[i]); err != nil {
			t.Fatalf("failed to save entry: %v", err)
		}
	}
	return entries
}

func execAudit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func history(now time.Time) []auditlog.Entry {
	return []auditlog.Entry{
		{
			Timestamp: now.Add(-72 * time.Hour), Tool: "delete_server",
			ResourceType: "server", ResourceID: "7", ResourceName: "old-web",
			Outcome: auditlog.OutcomeSuccess, DurationMs: 900,
		},
		{
			Timestamp: now.Add(-time.Hour), Tool: "power_on", Args: `{"server_id":42}`,
			ResourceType: "server", ResourceID: "42", ResourceName: "web-1",
			Outcome: auditlog.OutcomeSuccess, DurationMs: 120,
		},
		{
			Timestamp: now, Tool: "resize_volume", Args: `{"size":5,"volume_id":9}`,
			ResourceType: "volume", ResourceID: "9", ResourceName: "data",
			Outcome: auditlog.OutcomeError, Detail: "Failed to resize volume: new size must exceed 10 GB", DurationMs: 2500,
		},
	}
}

func TestList_Table(t *testing.T) {
	seed(t, history(time.Now().UTC())...)

	out, err := execAudit(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"RESOURCE", "RESULT",
		"power_on", "server:42 (web-1)", "120ms", "ok",
		"resize_volume", "volume:9 (data)", "2.5s", "Failed to resize volume: new size must exceed 10 GB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "resize_volume") > strings.Index(out, "power_on") {
		t.Errorf("expected newest call first:\n%s", out)
	}
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"tool", []string{"--tool", "power_on"}, []string{"power_on"}},
		{"resource type", []string{"--resource", "server"}, []string{"power_on", "delete_server"}},
		{"resource", []string{"--resource", "server:7"}, []string{"delete_server"}},
		{"failed", []string{"--failed"}, []string{"resize_volume"}},
		{"since", []string{"--since", "1d"}, []string{"resize_volume", "power_on"}},
		{"limit", []string{"--limit", "1"}, []string{"resize_volume"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed(t, history(time.Now().UTC())...)

			out, err := execAudit(t, append([]string{"list", "-o", "json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var entries []map[string]any
			if err := json.Unmarshal([]byte(out), &entries); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e["tool"].(string))
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("tools = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestList_JSONEmbedsArguments(t *testing.T) {
	seed(t, history(time.Now().UTC())...)

	out, err := execAudit(t, "list", "--failed", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}

	args, ok := entries[0]["arguments"].(map[string]any)
	if !ok {
		t.Fatalf("expected arguments object, got %T", entries[0]["arguments"])
	}
	if args["volume_id"] != float64(9) {
		t.Errorf("unexpected arguments %v", args)
	}
	if entries[0]["error"] != "Failed to resize volume: new size must exceed 10 GB" {
		t.Errorf("unexpected error field %v", entries[0]["error"])
	}
}

func TestList_Empty(t *testing.T) {
	seed(t)

	out, err := execAudit(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No recorded tool calls match.") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = execAudit(t, "list", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty JSON array, got %q", out)
	}
}

func TestList_InvalidFlags(t *testing.T) {
	seed(t)

	for _, args := range [][]string{
		{"list", "--limit", "0"},
		{"list", "--resource", "network:1"},
		{"list", "--resource", "server:abc"},
		{"list", "--since", "soon"},
		{"list", "-o", "yaml"},
	} {
		if _, err := execAudit(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestShow(t *testing.T) {
	entries := seed(t, history(time.Now().UTC())...)
	failed := entries[2]

	out, err := execAudit(t, "show", strconv.FormatInt(failed.ID, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"resize_volume", "volume:9 (data)", "error", "2.5s",
		"Failed to resize volume: new size must exceed 10 GB",
		"size:", "volume_id:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "size:") > strings.Index(out, "volume_id:") {
		t.Errorf("expected arguments in key order:\n%s", out)
	}

	out, err = execAudit(t, "show", strconv.FormatInt(failed.ID, 10), "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if got["tool"] != "resize_volume" || got["resource_id"] != "9" {
		t.Errorf("unexpected entry %v", got)
	}
}

func TestShow_Errors(t *testing.T) {
	seed(t)

	if _, err := execAudit(t, "show", "abc"); err == nil || !strings.Contains(err.Error(), "invalid entry ID") {
		t.Errorf("expected invalid ID error, got %v", err)
	}
	if _, err := execAudit(t, "show", "99"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestStats(t *testing.T) {
	now := time.Now().UTC()
	seed(t,
		auditlog.Entry{Timestamp: now.Add(-2 * time.Hour), Tool: "power_on", Outcome: auditlog.OutcomeSuccess, DurationMs: 100},
		auditlog.Entry{Timestamp: now.Add(-time.Hour), Tool: "power_on", Outcome: auditlog.OutcomeError, DurationMs: 300},
		auditlog.Entry{Timestamp: now.Add(-72 * time.Hour), Tool: "delete_server", Outcome: auditlog.OutcomeSuccess, DurationMs: 50},
	)

	out, err := execAudit(t, "stats")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"TOOL", "CALLS", "FAILED", "power_on", "200ms", "delete_server"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = execAudit(t, "stats", "--since", "1d", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var stats []auditlog.ToolStats
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(stats) != 1 || stats[0].Tool != "power_on" || stats[0].Calls != 2 || stats[0].Failures != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
		left int
	}{
		{"older than", []string{"--older-than", "2d"}, "Removed 1 recorded tool call.", 2},
		{"keep", []string{"--keep", "1"}, "Removed 2 recorded tool calls.", 1},
		{"nothing to remove", []string{"--keep", "10"}, "Removed 0 recorded tool calls.", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed(t, history(time.Now().UTC())...)

			out, err := execAudit(t, append([]string{"prune"}, tt.args...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, out)
			}

			out, err = execAudit(t, "list", "-o", "json")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var entries []map[string]any
			if err := json.Unmarshal([]byte(out), &entries); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}
			if len(entries) != tt.left {
				t.Errorf("expected %d entries left, got %d", tt.left, len(entries))
			}
		})
	}
}

func TestPrune_RequiresRetention(t *testing.T) {
	seed(t)

	for _, args := range [][]string{
		{"prune"},
		{"prune", "--keep", "0"},
		{"prune", "--older-than", "-1d"},
	} {
		if _, err := execAudit(t, args...); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: "72h", want: 72 * time.Hour},
		{in: " 90m ", want: 90 * time.Minute},
		{in: "0d", wantErr: true},
		{in: "-1d", wantErr: true},
		{in: "-5m", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "xd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAge(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseAge(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 0, want: "0ms"},
		{ms: 999, want: "999ms"},
		{ms: 2500, want: "2.5s"},
		{ms: 95_000, want: "1m35s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}
