// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists a history of the files doctool produces in a
// SQLite database. Batch tools consult it to skip sources that have not
// changed since their last successful conversion.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doctool/pkg/types"
)

const (
	dbFile         = "history.db"
	defaultListMax = 200
)

// Store manages the history database.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns ~/.config/doctool/history.db, or history.db in the
// working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dbFile
	}
	return filepath.Join(home, ".config", "doctool", dbFile)
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool TEXT NOT NULL,
			source TEXT NOT NULL,
			source_mod_time TEXT,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			detail TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_lookup ON records(tool, source, output)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends r to the history. A zero CreatedAt is set to now.
func (s *Store) Record(ctx context.Context, r types.Record) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (tool, source, source_mod_time, output, status, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Tool, r.Source, formatTime(r.SourceModTime), r.Output,
		string(r.Status), r.Detail, formatTime(r.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", r.Output, err)
	}
	return nil
}

// LastConverted returns the most recent successful record for tool, source
// and output. The second result is false when there is none.
func (s *Store) LastConverted(ctx context.Context, tool, source, output string) (types.Record, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT tool, source, source_mod_time, output, status, detail, created_at
		 FROM records
		 WHERE tool = ? AND source = ? AND output = ? AND status = ?
		 ORDER BY id DESC LIMIT 1`,
		tool, source, output, string(types.StatusConverted),
	)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, false, nil
	}
	if err != nil {
		return types.Record{}, false, fmt.Errorf("looking up %s: %w", source, err)
	}
	return r, true, nil
}

// Unchanged reports whether job's source was converted to the same output
// with the same modification time, and the output still exists.
func (s *Store) Unchanged(ctx context.Context, tool string, job types.Job) (bool, error) {
	r, ok, err := s.LastConverted(ctx, tool, job.Source, job.Output)
	if err != nil || !ok {
		return false, err
	}
	if !r.SourceModTime.Equal(job.ModTime) {
		return false, nil
	}
	if _, err := os.Stat(job.Output); err != nil {
		return false, nil
	}
	return true, nil
}

// Filter narrows List results.
type Filter struct {
	// Tool restricts results to one tool.
	Tool string
	// Status restricts results to one status.
	Status types.JobStatus
	// Since drops records created before this time.
	Since time.Time
	// Limit caps the number of records. Zero uses the default (200);
	// a negative value returns all records.
	Limit int
}

// List returns records matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]types.Record, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT tool, source, source_mod_time, output, status, detail, created_at FROM records WHERE 1=1`)
	if f.Tool != "" {
		qb.WriteString(` AND tool = ?`)
		args = append(args, f.Tool)
	}
	if f.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}
	if !f.Since.IsZero() {
		qb.WriteString(` AND created_at >= ?`)
		args = append(args, formatTime(f.Since))
	}
	qb.WriteString(` ORDER BY id DESC`)

	limit := f.Limit
	if limit == 0 {
		limit = defaultListMax
	}
	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []types.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.Record, error) {
	var (
		r                  types.Record
		modTime, createdAt string
		status             string
		detail             sql.NullString
	)
	if err := sc.Scan(&r.Tool, &r.Source, &modTime, &r.Output, &status, &detail, &createdAt); err != nil {
		return types.Record{}, err
	}
	r.Status = types.JobStatus(status)
	r.Detail = detail.String
	r.SourceModTime = parseTime(modTime)
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// formatTime stores times as UTC RFC 3339 with nanoseconds so that string
// comparison orders them and mod times round-trip exactly.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
