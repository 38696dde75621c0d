// Package database opens the local SQLite file shared by the persistent
// parts of hcloud-mcp and applies their schema migrations.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "hcloud-mcp"
	dbFile = "hcloud-mcp.db"
)

// TimeLayout is the storage format of timestamps. It is fixed width so
// that stored values sort and compare correctly as text.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open opens a SQLite database at the provided path, creating its parent
// directory. Connections use WAL mode and a 5s busy timeout.
func Open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("database: failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: failed to connect to %s: %w", path, err)
	}
	return db, nil
}

// Migrate brings the schema up to date. steps[i] moves the schema from
// version i to i+1; the current version is kept in PRAGMA user_version.
// Steps already applied are skipped, so steps must only ever be appended.
func Migrate(db *sql.DB, steps []string) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("database: failed to read schema version: %w", err)
	}
	if version > len(steps) {
		return fmt.Errorf("database: schema version %d is newer than this binary supports (%d)", version, len(steps))
	}

	for i := version; i < len(steps); i++ {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("database: migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(steps[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: migration %d failed: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("database: migration %d: failed to record version: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("database: migration %d: %w", i+1, err)
		}
	}
	return nil
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a value written by FormatTime. Older values in any
// RFC 3339 form are accepted too.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
