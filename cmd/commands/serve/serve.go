package serve

import (
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"nathanbeddoewebdev/hcloud-mcp/internal/auditlog"
	"nathanbeddoewebdev/hcloud-mcp/internal/config"
	"nathanbeddoewebdev/hcloud-mcp/internal/credentials"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"
	"nathanbeddoewebdev/hcloud-mcp/internal/logging"
	"nathanbeddoewebdev/hcloud-mcp/internal/mcpserver"
	"nathanbeddoewebdev/hcloud-mcp/internal/tools"
	"nathanbeddoewebdev/hcloud-mcp/internal/util"

	"github.com/spf13/cobra"
)

// Defaults used when neither a flag, the environment nor the config file
// provide a value.
const (
	DefaultHost      = "localhost"
	DefaultPort      = 8080
	DefaultTransport = mcpserver.TransportStdio
	DefaultLogLevel  = "info"
)

// Environment variables consulted for the listen address.
const (
	EnvHost    = "MCP_HOST"
	EnvPort    = "MCP_PORT"
	EnvBaseURL = "MCP_BASE_URL"
)

// NewCommand returns the "serve" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Hetzner Cloud tools over MCP",
		Long: `Serve the Hetzner Cloud tools over the Model Context Protocol.

The API token is read from the active context of the hcloud CLI
(~/.config/hcloud/cli.toml). Create one with 'hcloud context create'.

Settings are taken from flags, then the environment (MCP_HOST, MCP_PORT,
MCP_BASE_URL), then 'hcloud-mcp config', then the built-in defaults.

SSE clients are told to post messages to <base-url>/message. The base URL
defaults to http://<host>:<port>; set it when listening on 0.0.0.0 or
behind a proxy.

Examples:
  hcloud-mcp serve                              # stdio, for a parent process
  hcloud-mcp serve --transport sse --port 9090  # SSE on localhost:9090
  hcloud-mcp serve --transport sse --host 0.0.0.0 --base-url https://mcp.example.com`,
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}

	cmd.Flags().String("transport", DefaultTransport, "Transport: "+strings.Join(mcpserver.Transports, " or "))
	cmd.Flags().String("host", DefaultHost, "Listen host of the sse transport")
	cmd.Flags().Int("port", DefaultPort, "Listen port of the sse transport")
	cmd.Flags().String("base-url", "", "Public URL of the sse transport (default http://<host>:<port>)")
	cmd.Flags().String("log-level", DefaultLogLevel, "Log level: "+strings.Join(logging.Levels, ", "))
	cmd.Flags().Bool("audit", true, "Record mutating tool calls in the local audit log")

	return cmd
}

// Settings is the fully resolved process configuration.
type Settings struct {
	Transport string
	Host      string
	Port      int
	BaseURL   string
	LogLevel  string
	Audit     bool
}

// Resolve merges flags, environment and stored config. Only flags the user
// actually set take precedence.
func Resolve(cmd *cobra.Command, cfg *config.Config, getenv func(string) string) (Settings, error) {
	flags := cmd.Flags()
	s := Settings{
		Transport: DefaultTransport,
		Host:      DefaultHost,
		Port:      DefaultPort,
		LogLevel:  DefaultLogLevel,
		Audit:     cfg.AuditEnabled(),
	}

	if cfg.Transport != "" {
		s.Transport = cfg.Transport
	}
	if flags.Changed("transport") {
		s.Transport, _ = flags.GetString("transport")
	}
	s.Transport = util.NormalizeKey(s.Transport)
	if !mcpserver.ValidTransport(s.Transport) {
		return Settings{}, fmt.Errorf("invalid transport %q (valid: %s)", s.Transport, strings.Join(mcpserver.Transports, ", "))
	}

	switch {
	case flags.Changed("host"):
		s.Host, _ = flags.GetString("host")
	case getenv(EnvHost) != "":
		s.Host = getenv(EnvHost)
	case cfg.Host != "":
		s.Host = cfg.Host
	}

	switch {
	case flags.Changed("port"):
		s.Port, _ = flags.GetInt("port")
		if _, err := config.ParsePort(fmt.Sprint(s.Port)); err != nil {
			return Settings{}, err
		}
	case getenv(EnvPort) != "":
		port, err := config.ParsePort(getenv(EnvPort))
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", EnvPort, err)
		}
		s.Port = port
	case cfg.Port != 0:
		s.Port = cfg.Port
	}

	switch {
	case flags.Changed("base-url"):
		s.BaseURL, _ = flags.GetString("base-url")
	case getenv(EnvBaseURL) != "":
		s.BaseURL = getenv(EnvBaseURL)
	}
	if s.BaseURL != "" {
		u, err := url.Parse(s.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Settings{}, fmt.Errorf("invalid base URL %q: must be an absolute http or https URL", s.BaseURL)
		}
	}

	if cfg.LogLevel != "" {
		s.LogLevel = cfg.LogLevel
	}
	if flags.Changed("log-level") {
		s.LogLevel, _ = flags.GetString("log-level")
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, err
	}

	if flags.Changed("audit") {
		s.Audit, _ = flags.GetBool("audit")
	}

	return s, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := Resolve(cmd, cfg, os.Getenv)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(settings.LogLevel)
	logger := logging.New(level, cmd.ErrOrStderr())

	token, err := credentials.Resolve()
	if err != nil {
		return fmt.Errorf("failed to load Hetzner credentials: %w", err)
	}

	opts := tools.Options{Logger: logger}
	if settings.Audit {
		repo, err := auditlog.Open()
		if err != nil {
			logger.Warn("audit log unavailable, continuing without it", "error", err)
		} else {
			defer repo.Close()
			opts.Audit = repo
		}
	}

	handlers := tools.New(hetzner.New(token), opts)
	server := mcpserver.New(hetzner.ApplicationName, hetzner.Version, handlers.Tools())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return mcpserver.Run(ctx, server, mcpserver.Options{
		Transport: settings.Transport,
		Host:      settings.Host,
		Port:      settings.Port,
		BaseURL:   settings.BaseURL,
		Logger:    logger,
	})
}
