// Package archive keeps a record of finished incidents in SQL. SQLite
// (modernc.org/sqlite) suits single-host installs; Postgres (pgx) suits a
// shared dashboard server.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/shahar-caura/lifeline/internal/triage"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ErrUnsupportedDriver is returned by Open for unknown driver names.
var ErrUnsupportedDriver = errors.New("archive: unsupported driver")

// Entry is one archived incident.
type Entry struct {
	ID             int64                `json:"id"`
	SessionID      string               `json:"session_id"`
	Type           triage.EmergencyType `json:"type"`
	Severity       triage.Severity      `json:"severity"`
	Rule           triage.Rule          `json:"rule"`
	StartedAt      time.Time            `json:"started_at"`
	ArchivedAt     time.Time            `json:"archived_at"`
	Elapsed        time.Duration        `json:"elapsed"`
	StepsCompleted int                  `json:"steps_completed"`
	TotalSteps     int                  `json:"total_steps"`
	Actions        int                  `json:"actions"`
	Summary        string               `json:"summary"`
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS incident_archive (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    emergency_type TEXT NOT NULL,
    severity TEXT NOT NULL,
    rule TEXT NOT NULL,
    started_at INTEGER NOT NULL,
    archived_at INTEGER NOT NULL,
    elapsed_ms INTEGER NOT NULL,
    steps_completed INTEGER NOT NULL,
    total_steps INTEGER NOT NULL,
    actions INTEGER NOT NULL,
    summary TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incident_archive_session ON incident_archive(session_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS incident_archive (
    id BIGSERIAL PRIMARY KEY,
    session_id TEXT NOT NULL,
    emergency_type TEXT NOT NULL,
    severity TEXT NOT NULL,
    rule TEXT NOT NULL,
    started_at BIGINT NOT NULL,
    archived_at BIGINT NOT NULL,
    elapsed_ms BIGINT NOT NULL,
    steps_completed INTEGER NOT NULL,
    total_steps INTEGER NOT NULL,
    actions INTEGER NOT NULL,
    summary TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incident_archive_session ON incident_archive(session_id);
`

// Store is a SQL-backed archive.
type Store struct {
	db     *sql.DB
	driver string

	schemaMu    sync.Mutex
	schemaReady bool
}

// Open connects to the archive database. For sqlite, dsn is a file path.
func Open(driver, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("archive dsn is required")
	}

	switch driver {
	case DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn = filepath.Clean(dsn) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return &Store{db: db, driver: driver}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ensureSchema applies the schema until it succeeds once. A failure is
// retried on the next call.
func (s *Store) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}

	schema := sqliteSchema
	if s.driver == DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying archive schema: %w", err)
		}
	}
	s.schemaReady = true
	return nil
}

// bind rewrites ? placeholders to $n for postgres.
func (s *Store) bind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Record inserts e. ArchivedAt defaults to StartedAt+Elapsed when zero.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(e.SessionID) == "" {
		return fmt.Errorf("archive: session id is required")
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if e.ArchivedAt.IsZero() {
		e.ArchivedAt = e.StartedAt.Add(e.Elapsed)
	}

	_, err := s.db.ExecContext(ctx, s.bind(`INSERT INTO incident_archive (
		session_id, emergency_type, severity, rule, started_at, archived_at,
		elapsed_ms, steps_completed, total_steps, actions, summary
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		e.SessionID,
		string(e.Type),
		string(e.Severity),
		string(e.Rule),
		toMillis(e.StartedAt),
		toMillis(e.ArchivedAt),
		e.Elapsed.Milliseconds(),
		e.StepsCompleted,
		e.TotalSteps,
		e.Actions,
		e.Summary,
	)
	if err != nil {
		return fmt.Errorf("inserting archive entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty sessionID
// matches every session.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, session_id, emergency_type, severity, rule, started_at, archived_at,
		elapsed_ms, steps_completed, total_steps, actions, summary
		FROM incident_archive`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY archived_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                     Entry
			typ, sev, rule        string
			started, archived, el int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &typ, &sev, &rule, &started, &archived,
			&el, &e.StepsCompleted, &e.TotalSteps, &e.Actions, &e.Summary); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		e.Type = triage.EmergencyType(typ)
		e.Severity = triage.Severity(sev)
		e.Rule = triage.Rule(rule)
		e.StartedAt = fromMillis(started)
		e.ArchivedAt = fromMillis(archived)
		e.Elapsed = time.Duration(el) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }
