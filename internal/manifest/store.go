// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists an audit log of sync runs in SQLite.
// The manifest is write-only during a sync and is never consulted for the
// staleness decision; the files themselves remain the source of truth, and
// deleting the database changes nothing about what gets converted.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/asset-forge/pkg/types"
)

const dbFile = "forge.db"

// Store manages the manifest SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the manifest database at dir/forge.db, creating
// the schema if it does not exist.
func Open(cfg types.ManifestConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			stage TEXT NOT NULL,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			width INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run row and returns its ID.
func (s *Store) BeginRun(startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (started_at) VALUES (?)`,
		startedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// FinishRun records the end timestamp and counts for a run.
func (s *Store) FinishRun(runID int64, finishedAt time.Time, converted, skipped, failed int) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339), converted, skipped, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %d: %w", runID, err)
	}
	return nil
}

// RecordConversion appends one conversion entry to a run.
func (s *Store) RecordConversion(runID int64, rec types.ConversionRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO conversions (run_id, stage, source, target, width, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, string(rec.Stage), rec.Source, rec.Target, rec.Width, string(rec.Status), rec.Error,
	)
	if err != nil {
		return fmt.Errorf("recording conversion of %s: %w", rec.Source, err)
	}
	return nil
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         int64     `json:"id" yaml:"id"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Converted  int       `json:"converted" yaml:"converted"`
	Skipped    int       `json:"skipped" yaml:"skipped"`
	Failed     int       `json:"failed" yaml:"failed"`
}

// RecentRuns returns the most recent runs, newest first. A limit of 0
// falls back to the configured maximum.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = s.maxResults
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.ID, &started, &finished, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339, finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Conversions returns the entries recorded for a run in insertion order.
func (s *Store) Conversions(ctx context.Context, runID int64) ([]types.ConversionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, source, target, width, status, error
		 FROM conversions WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying conversions for run %d: %w", runID, err)
	}
	defer rows.Close()

	var recs []types.ConversionRecord
	for rows.Next() {
		var rec types.ConversionRecord
		var stage, status string
		var convErr sql.NullString
		if err := rows.Scan(&stage, &rec.Source, &rec.Target, &rec.Width, &status, &convErr); err != nil {
			return nil, fmt.Errorf("scanning conversion row: %w", err)
		}
		rec.Stage = types.Stage(stage)
		rec.Status = types.ConversionStatus(status)
		if convErr.Valid {
			rec.Error = convErr.String
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
