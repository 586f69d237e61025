// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records check runs in a SQLite database and queries
// past results.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/toc-checker/pkg/types"
)

// DefaultMaxResults bounds a query when neither the filter nor the config
// sets a limit.
const DefaultMaxResults = 20

// ErrNoHistory is returned when no result is recorded for a location.
var ErrNoHistory = errors.New("no recorded result")

// Store manages the history database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			source TEXT,
			keywords TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			url TEXT NOT NULL,
			status TEXT NOT NULL,
			keyword TEXT,
			page INTEGER,
			pages INTEGER,
			error TEXT,
			checked_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_url ON results(url)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a run and its results in one transaction.
func (s *Store) RecordRun(ctx context.Context, run types.Run, results []types.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	keywordsJSON, err := json.Marshal(run.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, source, keywords) VALUES (?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), run.Source, string(keywordsJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, url, status, keyword, page, pages, error, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		_, err := stmt.ExecContext(ctx,
			run.ID, r.URL, string(r.Status), r.Keyword, r.Page, r.Pages, r.Error,
			formatTime(r.CheckedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting result for %s: %w", r.URL, err)
		}
	}

	return tx.Commit()
}

// Entry is a recorded result and the run it belongs to.
type Entry struct {
	types.Result `yaml:",inline"`
	RunID        string `json:"run_id" yaml:"run_id"`
}

// Filter narrows a history query.
type Filter struct {
	// URL selects results for one location.
	URL string

	// RunID selects results of one run.
	RunID string

	// Status selects results with one status.
	Status types.Status

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Query returns recorded results matching f, newest first.
func (s *Store) Query(ctx context.Context, f Filter) ([]Entry, error) {
	maxResults := f.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT run_id, url, status, keyword, page, pages, error, checked_at
		FROM results WHERE 1=1`)

	if f.URL != "" {
		qb.WriteString(` AND url = ?`)
		args = append(args, f.URL)
	}
	if f.RunID != "" {
		qb.WriteString(` AND run_id = ?`)
		args = append(args, f.RunID)
	}
	if f.Status != "" {
		qb.WriteString(` AND status = ?`)
		args = append(args, string(f.Status))
	}

	qb.WriteString(` ORDER BY checked_at DESC, rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			status    string
			keyword   sql.NullString
			page      sql.NullInt64
			pages     sql.NullInt64
			errText   sql.NullString
			checkedAt string
		)
		if err := rows.Scan(&e.RunID, &e.URL, &status, &keyword, &page, &pages, &errText, &checkedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Status = types.Status(status)
		e.Found = e.Status == types.StatusFound
		e.Keyword = keyword.String
		e.Page = int(page.Int64)
		e.Pages = int(pages.Int64)
		e.Error = errText.String
		if e.CheckedAt, err = time.Parse(time.RFC3339Nano, checkedAt); err != nil {
			return nil, fmt.Errorf("parsing checked_at of %s: %w", e.URL, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestByURL returns the most recent result for url.
func (s *Store) LatestByURL(ctx context.Context, url string) (Entry, error) {
	entries, err := s.Query(ctx, Filter{URL: url, MaxResults: 1})
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%w for %s", ErrNoHistory, url)
	}
	return entries[0], nil
}

// Runs returns recorded runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, source, keywords FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var (
			r            types.Run
			startedAt    string
			source       sql.NullString
			keywordsJSON sql.NullString
		)
		if err := rows.Scan(&r.ID, &startedAt, &source, &keywordsJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at of run %s: %w", r.ID, err)
		}
		r.Source = source.String
		if keywordsJSON.Valid && keywordsJSON.String != "" {
			if err := json.Unmarshal([]byte(keywordsJSON.String), &r.Keywords); err != nil {
				return nil, fmt.Errorf("decoding keywords of run %s: %w", r.ID, err)
			}
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// formatTime renders t in UTC with a fixed-width fraction so that stored
// values sort lexically in time order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
