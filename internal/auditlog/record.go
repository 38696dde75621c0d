package auditlog

import (
	"encoding/json"
	"time"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry is one recorded call of a mutating tool.
type Entry struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`

	// Args holds the sanitized call arguments as compact JSON.
	Args string `json:"args,omitempty"`

	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`
	ResourceName string `json:"resource_name,omitempty"`

	Outcome string `json:"outcome"`

	// Detail is the error message returned to the caller.
	Detail     string `json:"detail,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Failed reports whether the call returned an error envelope.
func (e Entry) Failed() bool { return e.Outcome == OutcomeError }

// Resource renders the resource the call acted on, e.g. "server:42 (web-1)".
// It is empty when the call failed before a resource was identified.
func (e Entry) Resource() string {
	out := e.ResourceType
	if e.ResourceID != "" {
		if out != "" {
			out += ":"
		}
		out += e.ResourceID
	}
	if e.ResourceName != "" {
		if out != "" {
			out += " (" + e.ResourceName + ")"
		} else {
			out = e.ResourceName
		}
	}
	return out
}

// Arguments decodes Args. It returns nil when no arguments were recorded.
func (e Entry) Arguments() (map[string]any, error) {
	if e.Args == "" {
		return nil, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(e.Args), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Query selects entries. Zero fields do not filter.
type Query struct {
	Tool         string
	ResourceType string
	// ResourceID is only honoured together with ResourceType.
	ResourceID string
	FailedOnly bool
	Since      time.Time
	Limit      int
}

// ToolStats summarizes the recorded calls of one tool.
type ToolStats struct {
	Tool          string    `json:"tool"`
	Calls         int64     `json:"calls"`
	Failures      int64     `json:"failures"`
	AvgDurationMs int64     `json:"avg_duration_ms"`
	LastCall      time.Time `json:"last_call"`
}

// Retention selects the entries Prune removes: those older than Before,
// and those beyond the newest Keep. Zero fields do not apply.
type Retention struct {
	Before time.Time
	Keep   int
}
