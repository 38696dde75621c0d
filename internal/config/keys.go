package config

import (
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/logging"
	"nathanbeddoewebdev/hcloud-mcp/internal/mcpserver"
	"nathanbeddoewebdev/hcloud-mcp/internal/util"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "log-level").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set validates a value and applies it to the given Config (in memory
	// only; the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "transport",
		Description: "MCP transport used when --transport is not specified (stdio or sse)",
		Get:         func(cfg *Config) string { return cfg.Transport },
		Set: func(cfg *Config, v string) error {
			v = util.NormalizeKey(v)
			if !mcpserver.ValidTransport(v) {
				return fmt.Errorf("invalid transport %q (valid: %s)", v, strings.Join(mcpserver.Transports, ", "))
			}
			cfg.Transport = v
			return nil
		},
	},
	{
		Name:        "host",
		Description: "Listen host of the sse transport",
		Get:         func(cfg *Config) string { return cfg.Host },
		Set: func(cfg *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return fmt.Errorf("host must not be empty")
			}
			cfg.Host = v
			return nil
		},
	},
	{
		Name:        "port",
		Description: "Listen port of the sse transport",
		Get: func(cfg *Config) string {
			if cfg.Port == 0 {
				return ""
			}
			return strconv.Itoa(cfg.Port)
		},
		Set: func(cfg *Config, v string) error {
			port, err := ParsePort(v)
			if err != nil {
				return err
			}
			cfg.Port = port
			return nil
		},
	},
	{
		Name:        "log-level",
		Description: "Minimum level of log records written to stderr",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set: func(cfg *Config, v string) error {
			if _, err := logging.ParseLevel(v); err != nil {
				return err
			}
			cfg.LogLevel = util.NormalizeKey(v)
			return nil
		},
	},
	{
		Name:        "audit",
		Description: "Record mutating tool calls in the local audit log (true or false)",
		Get: func(cfg *Config) string {
			if cfg.Audit == nil {
				return ""
			}
			return strconv.FormatBool(*cfg.Audit)
		},
		Set: func(cfg *Config, v string) error {
			enabled, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("invalid audit value %q: must be true or false", v)
			}
			cfg.Audit = &enabled
			return nil
		},
	},
}

// ParsePort parses a TCP port number.
func ParsePort(v string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q: must be a number between 1 and 65535", v)
	}
	return port, nil
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := util.NormalizeKey(name)
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
