// Package mcpserver exposes the tools over MCP on one of two transports:
// stdio for a parent process and SSE for network clients.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/logging"
	"nathanbeddoewebdev/hcloud-mcp/internal/tools"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Transports lists the accepted transport names.
var Transports = []string{TransportStdio, TransportSSE}

// Endpoint paths of the SSE transport.
const (
	SSEEndpoint     = "/sse"
	MessageEndpoint = "/message"
)

const shutdownTimeout = 5 * time.Second

// New registers every tool with a fresh MCP server.
func New(name, version string, all []tools.Tool) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, t := range all {
		s.AddTool(t.Definition, t.Handler)
	}
	return s
}

// Options selects and configures the transport.
type Options struct {
	Transport string
	Host      string
	Port      int
	Logger    *slog.Logger

	// BaseURL is the address SSE clients are told to post messages to.
	// Defaults to http://host:port, which is wrong for wildcard hosts or
	// servers behind a proxy.
	BaseURL string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// ValidTransport reports whether name is a known transport.
func ValidTransport(name string) bool {
	for _, t := range Transports {
		if t == name {
			return true
		}
	}
	return false
}

// Run serves s until ctx is cancelled or the transport fails.
func Run(ctx context.Context, s *server.MCPServer, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	switch opts.Transport {
	case TransportStdio, "":
		return runStdio(ctx, s, opts)
	case TransportSSE:
		return runSSE(ctx, s, opts)
	default:
		return fmt.Errorf("unknown transport %q: must be one of %v", opts.Transport, Transports)
	}
}

func runStdio(ctx context.Context, s *server.MCPServer, opts Options) error {
	in, out := opts.Stdin, opts.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(opts.Logger.Handler(), slog.LevelError))

	opts.Logger.Info("serving MCP", "transport", TransportStdio)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// Addr joins host and port into a listen address.
func Addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func runSSE(ctx context.Context, s *server.MCPServer, opts Options) error {
	addr := Addr(opts.Host, opts.Port)
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://" + addr
	}

	// The server is created up front so a cancellation racing Start still
	// has something to shut down. The SSE server only installs itself as
	// the handler when it builds the http.Server on its own.
	httpServer := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(opts.Logger.Handler(), slog.LevelError),
	}
	sse := server.NewSSEServer(s,
		server.WithBaseURL(strings.TrimSuffix(baseURL, "/")),
		server.WithSSEEndpoint(SSEEndpoint),
		server.WithMessageEndpoint(MessageEndpoint),
		server.WithHTTPServer(httpServer),
	)
	httpServer.Handler = sse

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts.Logger.Info("serving MCP", "transport", TransportSSE, "addr", addr,
			"base_url", baseURL, "sse", SSEEndpoint, "message", MessageEndpoint)
		if err := sse.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sse transport: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		opts.Logger.Info("shutting down", "transport", TransportSSE)
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sse shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
