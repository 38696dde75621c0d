// Package credentials resolves the Hetzner Cloud API token from the hcloud
// CLI configuration file.
//
// The file lives at ~/.config/hcloud/cli.toml and holds a list of named
// contexts, exactly one of which is active:
//
//	active_context = "project"
//
//	[[contexts]]
//	name  = "project"
//	token = "..."
//
// Every failure is fatal to startup; there is no fallback source.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var (
	// ErrNotConfigured indicates the CLI configuration file does not exist.
	ErrNotConfigured = errors.New("hcloud CLI is not configured")

	// ErrInvalidConfig indicates the active context is unset or missing
	// from the contexts list.
	ErrInvalidConfig = errors.New("invalid hcloud CLI configuration")

	// ErrMissingToken indicates the active context has no token.
	ErrMissingToken = errors.New("active hcloud context has no token")
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the CLI config path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// cliConfig mirrors the subset of the hcloud CLI file that carries tokens.
type cliConfig struct {
	ActiveContext string       `toml:"active_context"`
	Contexts      []cliContext `toml:"contexts"`
}

type cliContext struct {
	Name  string `toml:"name"`
	Token string `toml:"token"`
}

// Path returns the absolute path of the hcloud CLI config file.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("credentials: unable to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hcloud", "cli.toml"), nil
}

// Resolve returns the token of the currently active context.
func Resolve() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return ResolveFrom(path)
}

// ResolveFrom returns the token of the active context in the file at path.
func ResolveFrom(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist, run 'hcloud context create' first", ErrNotConfigured, path)
		}
		return "", fmt.Errorf("credentials: failed to read %s: %w", path, err)
	}

	var cfg cliConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return "", fmt.Errorf("credentials: failed to parse %s: %w", path, err)
	}

	if cfg.ActiveContext == "" {
		return "", fmt.Errorf("%w: no active context set in %s", ErrInvalidConfig, path)
	}

	for _, c := range cfg.Contexts {
		if c.Name != cfg.ActiveContext {
			continue
		}
		if c.Token == "" {
			return "", fmt.Errorf("%w: context %q", ErrMissingToken, c.Name)
		}
		return c.Token, nil
	}

	return "", fmt.Errorf("%w: active context %q not found in %s", ErrInvalidConfig, cfg.ActiveContext, path)
}
