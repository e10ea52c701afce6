// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists scan results in a SQLite database so that
// repeated scans can skip unchanged files and suspect lines can be
// reviewed later.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/boldfix/pkg/types"
)

const (
	dbFile            = "boldfix.db"
	defaultMaxResults = 50
)

// Store manages the scan history database.
type Store struct {
	db         *sqlx.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the history database at cfg.Dir/boldfix.db and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sqlx.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			mod_time TEXT NOT NULL,
			lines INTEGER NOT NULL,
			changed INTEGER NOT NULL,
			min_confidence INTEGER NOT NULL,
			scanned_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS lines (
			path TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
			line INTEGER NOT NULL,
			original TEXT NOT NULL,
			fixed TEXT NOT NULL,
			conf_before INTEGER NOT NULL,
			conf_after INTEGER NOT NULL,
			PRIMARY KEY (path, line)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lines_conf_after ON lines(conf_after)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the outcome of scanning one file, replacing any earlier
// record for the same path. Skipped and failed files are not recorded, so
// the next scan tries them again.
func (s *Store) Record(ctx context.Context, report types.FileReport) error {
	if report.Status == types.FileSkipped || report.Status == types.FileFailed {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE path = ?`, report.Path); err != nil {
		return fmt.Errorf("deleting old lines: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO files (path, status, mod_time, lines, changed, min_confidence, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			status=excluded.status, mod_time=excluded.mod_time, lines=excluded.lines,
			changed=excluded.changed, min_confidence=excluded.min_confidence,
			scanned_at=excluded.scanned_at`,
		report.Path, string(report.Status), formatTime(report.ModTime),
		report.Lines, report.Changed, report.MinConfidence,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upserting file: %w", err)
	}

	for _, line := range report.Reports {
		_, err := tx.NamedExecContext(ctx,
			`INSERT INTO lines (path, line, original, fixed, conf_before, conf_after)
			 VALUES (:path, :line, :original, :fixed, :conf_before, :conf_after)`, line)
		if err != nil {
			return fmt.Errorf("inserting line %d: %w", line.Line, err)
		}
	}

	return tx.Commit()
}

// Unchanged reports whether path was recorded with the given modification
// time.
func (s *Store) Unchanged(ctx context.Context, path string, modTime time.Time) (bool, error) {
	var stored string
	err := s.db.GetContext(ctx, &stored, `SELECT mod_time FROM files WHERE path = ?`, path)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	return stored == formatTime(modTime), nil
}

// FileSummary is one row of the files table.
type FileSummary struct {
	Path          string `json:"path" yaml:"path" db:"path"`
	Status        string `json:"status" yaml:"status" db:"status"`
	ModTime       string `json:"mod_time" yaml:"mod_time" db:"mod_time"`
	Lines         int    `json:"lines" yaml:"lines" db:"lines"`
	Changed       int    `json:"changed" yaml:"changed" db:"changed"`
	MinConfidence int    `json:"min_confidence" yaml:"min_confidence" db:"min_confidence"`
	ScannedAt     string `json:"scanned_at" yaml:"scanned_at" db:"scanned_at"`
}

// Files returns every recorded file ordered by lowest confidence first.
func (s *Store) Files(ctx context.Context) ([]FileSummary, error) {
	var files []FileSummary
	err := s.db.SelectContext(ctx, &files,
		`SELECT path, status, mod_time, lines, changed, min_confidence, scanned_at
		 FROM files ORDER BY min_confidence, path`)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
