package auditlog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/database"
)

// ErrEntryNotFound is returned by Get for an unknown entry ID.
var ErrEntryNotFound = errors.New("audit entry not found")

// Repository defines the persistence interface for audit entries.
type Repository interface {
	Save(entry *Entry) error
	Find(q Query) ([]Entry, error)
	Get(id int64) (*Entry, error)
	Stats(since time.Time) ([]ToolStats, error)
	Prune(r Retention) (int64, error)
	Close() error
}

// migrations are applied in order by database.Migrate. Append only.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tool_audit (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     TEXT    NOT NULL,
		tool          TEXT    NOT NULL,
		args          TEXT    NOT NULL DEFAULT '',
		resource_type TEXT    NOT NULL DEFAULT '',
		resource_id   TEXT    NOT NULL DEFAULT '',
		resource_name TEXT    NOT NULL DEFAULT '',
		outcome       TEXT    NOT NULL DEFAULT '',
		detail        TEXT    NOT NULL DEFAULT '',
		duration_ms   INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_tool_audit_timestamp ON tool_audit(timestamp);
	CREATE INDEX IF NOT EXISTS idx_tool_audit_tool ON tool_audit(tool);
	CREATE INDEX IF NOT EXISTS idx_tool_audit_resource ON tool_audit(resource_type, resource_id);`,
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the audit repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if err := database.Migrate(db, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts a new audit entry, stamping it with the current time when
// no timestamp is set.
func (r *SQLiteRepository) Save(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO tool_audit (timestamp, tool, args, resource_type, resource_id, resource_name, outcome, detail, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		database.FormatTime(entry.Timestamp), entry.Tool, entry.Args,
		entry.ResourceType, entry.ResourceID, entry.ResourceName, entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

const selectEntries = `
	SELECT id, timestamp, tool, args, resource_type, resource_id, resource_name,
	       outcome, detail, duration_ms
	FROM tool_audit`

// where renders the filters of q as a WHERE clause and its arguments.
func (q Query) where() (string, []any) {
	var conds []string
	var args []any

	if q.Tool != "" {
		conds = append(conds, "tool = ?")
		args = append(args, q.Tool)
	}
	if q.ResourceType != "" {
		conds = append(conds, "resource_type = ?")
		args = append(args, q.ResourceType)
		if q.ResourceID != "" {
			conds = append(conds, "resource_id = ?")
			args = append(args, q.ResourceID)
		}
	}
	if q.FailedOnly {
		conds = append(conds, "outcome = ?")
		args = append(args, OutcomeError)
	}
	if !q.Since.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, database.FormatTime(q.Since))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Find returns the entries matching q, newest first.
func (r *SQLiteRepository) Find(q Query) ([]Entry, error) {
	where, args := q.where()
	stmt := selectEntries + where + ` ORDER BY timestamp DESC, id DESC`
	if q.Limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := r.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Get returns a single entry by ID.
func (r *SQLiteRepository) Get(id int64) (*Entry, error) {
	entry, err := scanEntry(r.db.QueryRow(selectEntries+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	return entry, err
}

// Stats aggregates entries recorded at or after since per tool, busiest
// tool first. A zero since covers the whole log.
func (r *SQLiteRepository) Stats(since time.Time) ([]ToolStats, error) {
	where, args := Query{Since: since}.where()
	rows, err := r.db.Query(`
		SELECT tool,
		       COUNT(*),
		       SUM(CASE WHEN outcome = '`+OutcomeError+`' THEN 1 ELSE 0 END),
		       CAST(AVG(duration_ms) AS INTEGER),
		       MAX(timestamp)
		FROM tool_audit`+where+`
		GROUP BY tool
		ORDER BY COUNT(*) DESC, tool`, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: stats query failed: %w", err)
	}
	defer rows.Close()

	var stats []ToolStats
	for rows.Next() {
		var s ToolStats
		var last string
		if err := rows.Scan(&s.Tool, &s.Calls, &s.Failures, &s.AvgDurationMs, &last); err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		s.LastCall, _ = database.ParseTime(last)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Prune deletes the entries selected by ret and returns how many were
// removed.
func (r *SQLiteRepository) Prune(ret Retention) (int64, error) {
	var conds []string
	var args []any
	if !ret.Before.IsZero() {
		conds = append(conds, "timestamp < ?")
		args = append(args, database.FormatTime(ret.Before))
	}
	if ret.Keep > 0 {
		conds = append(conds, "id NOT IN (SELECT id FROM tool_audit ORDER BY timestamp DESC, id DESC LIMIT ?)")
		args = append(args, ret.Keep)
	}
	if len(conds) == 0 {
		return 0, fmt.Errorf("auditlog: retention selects nothing")
	}

	result, err := r.db.Exec(`DELETE FROM tool_audit WHERE `+strings.Join(conds, " OR "), args...)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var timestamp string
	err := row.Scan(
		&entry.ID, &timestamp, &entry.Tool, &entry.Args,
		&entry.ResourceType, &entry.ResourceID, &entry.ResourceName,
		&entry.Outcome, &entry.Detail, &entry.DurationMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("auditlog: scan failed: %w", err)
	}
	entry.Timestamp, _ = database.ParseTime(timestamp)
	return &entry, nil
}
