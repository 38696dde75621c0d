// Package logging builds the process logger. Logs always go to stderr in
// practice because stdout carries the stdio transport.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"nathanbeddoewebdev/hcloud-mcp/internal/util"

	"golang.org/x/term"
)

// Levels lists the accepted level names, lowest first.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel maps a level name to its slog level. The empty string is info.
func ParseLevel(name string) (slog.Level, error) {
	switch util.NormalizeKey(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: %s)", name, strings.Join(Levels, ", "))
	}
}

// New returns a logger writing to w. Terminals get the text handler, any
// other writer (files, pipes, log collectors) gets JSON.
func New(level slog.Level, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
