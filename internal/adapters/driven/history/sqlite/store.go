// Package sqlite provides a SQLite-backed ingestion history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/grill-labs/aerobot/internal/core/domain"
	"github.com/grill-labs/aerobot/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IngestHistory = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS ingest_runs (
	id          TEXT PRIMARY KEY,
	file        TEXT NOT NULL,
	documents   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	recreate    INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_ingest_runs_started_at ON ingest_runs(started_at DESC);
`

// Store keeps the ingestion run log in a local SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates the history store at the specified data directory.
// If dataDir is empty, defaults to ~/.aerobot/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".aerobot", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{
		db:   db,
		path: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record persists one ingestion run.
func (s *Store) Record(ctx context.Context, run domain.IngestRun) error {
	recreate := 0
	if run.Recreate {
		recreate = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, file, documents, skipped, recreate, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.File,
		run.Documents,
		run.Skipped,
		recreate,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting ingest run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]domain.IngestRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file, documents, skipped, recreate, started_at, finished_at, error
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.IngestRun
	for rows.Next() {
		var run domain.IngestRun
		var recreate int
		var startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &run.File, &run.Documents, &run.Skipped, &recreate, &startedAt, &finishedAt, &run.Error); err != nil {
			return nil, fmt.Errorf("scanning ingest run: %w", err)
		}
		run.Recreate = recreate != 0
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingest runs: %w", err)
	}
	return runs, nil
}
