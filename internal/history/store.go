// Package history keeps a local ledger of conversion runs in SQLite.
// Ledger failures are ambient: callers log them and carry on, they never
// fail a conversion.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run statuses recorded in the ledger.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrNotFound is returned when a run id is not in the ledger.
var ErrNotFound = errors.New("run not found")

// Run is one recorded conversion run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time // zero until the run ends
	Status     string
	Jobs       int
	Items      int
	Pages      int
	Weighted   float64
	Error      string
}

// Store is the SQLite-backed run ledger.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path, creating the file and schema if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			status TEXT NOT NULL,
			jobs INTEGER NOT NULL,
			items INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			weighted REAL NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("ensure runs table: %w", err)
	}
	return nil
}

// RecordStart inserts a running row for the run.
func (s *Store) RecordStart(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, status, jobs, items, pages, weighted, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, '')`,
		run.ID, run.StartedAt, StatusRunning, run.Jobs, run.Items, run.Pages, run.Weighted)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// RecordFinish closes out a run row with its final status and, for failed
// runs, the error text.
func (s *Store) RecordFinish(ctx context.Context, id, status, errText string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		finishedAt, status, errText, id)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, status, jobs, items, pages, weighted, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.Status, &r.Jobs, &r.Items, &r.Pages, &r.Weighted, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
