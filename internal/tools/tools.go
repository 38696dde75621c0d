// Package tools implements the MCP tools over the Hetzner Cloud API.
//
// Every tool follows the same protocol, implemented once by bind: decode and
// validate the arguments, resolve the referenced resources, perform one
// provider operation and return either a result record or an error
// envelope of the form {"error": "..."} with the MCP error flag set.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"
	"nathanbeddoewebdev/hcloud-mcp/internal/domain"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/logging"
	"nathanbeddoewebdev/hcloud-mcp/internal/params"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool pairs a tool definition with its handler.
type Tool struct {
	Definition mcp.Tool
	Handler    server.ToolHandlerFunc
	// Mutating tools change provider state and are written to the audit log.
	Mutating bool
}

// AuditSink persists audit entries. auditlog.Repository satisfies it.
type AuditSink interface {
	Save(entry *auditlog.Entry) error
}

// Options configures the handlers. The zero value logs nothing and audits
// nothing.
type Options struct {
	Logger *slog.Logger
	Audit  AuditSink
}

// Handlers holds the shared provider client. It has no mutable state, so a
// single value serves concurrent invocations.
type Handlers struct {
	client *hetzner.Client
	logger *slog.Logger
	audit  AuditSink
}

// New creates the tool handlers around an already authenticated client.
func New(client *hetzner.Client, opts Options) *Handlers {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handlers{
		client: client,
		logger: logger,
		audit:  opts.Audit,
	}
}

// Tools returns every tool, grouped by resource.
func (h *Handlers) Tools() []Tool {
	var all []Tool
	all = append(all, h.serverTools()...)
	all = append(all, h.catalogTools()...)
	all = append(all, h.firewallTools()...)
	all = append(all, h.volumeTools()...)
	all = append(all, h.sshKeyTools()...)
	return all
}

// spec describes one tool for bind.
type spec struct {
	// operation completes "Failed to <operation>" in provider error messages.
	operation string
	mutating  bool
}

// modelPtr constrains P to a pointer to a request model struct.
type modelPtr[T any] interface {
	*T
	params.Model
}

// bind turns a typed handler function into an MCP tool handler.
func bind[T any, P modelPtr[T], R any](h *Handlers, def mcp.Tool, s spec, fn func(ctx context.Context, p P) (R, error)) Tool {
	name := def.Name
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		args := req.GetArguments()
		if s.mutating {
			ctx = auditlog.WithMetadata(ctx, auditlog.Metadata{})
		}

		result, err := invoke[T, P, R](ctx, args, fn)
		h.observe(ctx, name, s, args, start, err)

		if err != nil {
			return errorResult(message(s.operation, err)), nil
		}
		return jsonResult(result)
	}

	return Tool{Definition: def, Handler: handler, Mutating: s.mutating}
}

func invoke[T any, P modelPtr[T], R any](ctx context.Context, args map[string]any, fn func(context.Context, P) (R, error)) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	p := P(new(T))
	if err := params.Decode(args, p); err != nil {
		return result, err
	}
	return fn(ctx, p)
}

// message renders err for the caller. Not-found and validation errors are
// already phrased for the caller; anything else came from the provider.
func message(operation string, err error) string {
	var nf *domain.NotFoundError
	var ve *domain.ValidationError
	if errors.As(err, &nf) || errors.As(err, &ve) {
		return err.Error()
	}
	return fmt.Sprintf("Failed to %s: %v", operation, err)
}

func (h *Handlers) observe(ctx context.Context, name string, s spec, args map[string]any, start time.Time, err error) {
	elapsed := time.Since(start)
	logger := h.logger.With("tool", name, "duration", elapsed)
	if err != nil {
		logger.WarnContext(ctx, "tool failed", "error", err)
	} else {
		logger.DebugContext(ctx, "tool invoked")
	}

	if !s.mutating || h.audit == nil {
		return
	}

	meta := auditlog.MetadataFromContext(ctx)
	entry := &auditlog.Entry{
		Timestamp:    start.UTC(),
		Tool:         name,
		Args:         auditlog.SanitizeArguments(args),
		ResourceType: meta.ResourceType,
		ResourceID:   meta.ResourceID,
		ResourceName: meta.ResourceName,
		Outcome:      auditlog.OutcomeSuccess,
		DurationMs:   elapsed.Milliseconds(),
	}
	if err != nil {
		entry.Outcome = auditlog.OutcomeError
		entry.Detail = message(s.operation, err)
	}
	if saveErr := h.audit.Save(entry); saveErr != nil {
		logger.WarnContext(ctx, "audit write failed", "error", saveErr)
	}
}

// annotate records the resource a mutating tool acted on.
func annotate(ctx context.Context, resourceType string, id int64, name string) {
	meta := auditlog.Metadata{ResourceType: resourceType, ResourceName: name}
	if id != 0 {
		meta.ResourceID = fmt.Sprintf("%d", id)
	}
	auditlog.Annotate(ctx, meta)
}

// errorEnvelope is the body of every failed invocation.
type errorEnvelope struct {
	Error string `json:"error"`
}

func errorResult(msg string) *mcp.CallToolResult {
	b, _ := json.Marshal(errorEnvelope{Error: msg})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(b))},
		IsError: true,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(b))},
	}, nil
}
