// Package audit persists the run history: every batch run, and every
// synthesized check-in record, so the operator keeps a paper trail of
// fabricated data. Backed by SQLite.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// migrations is an ordered list of SQL statements to run on open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id                  TEXT     PRIMARY KEY,
		settings_path       TEXT     NOT NULL,
		started_at          DATETIME NOT NULL,
		finished_at         DATETIME,
		files_processed     INTEGER  NOT NULL DEFAULT 0,
		records_synthesized INTEGER  NOT NULL DEFAULT 0,
		status              TEXT     NOT NULL DEFAULT 'running',
		error               TEXT     NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS synthetic_visits (
		id            INTEGER  PRIMARY KEY AUTOINCREMENT,
		run_id        TEXT     NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source_file   TEXT     NOT NULL,
		visitor       TEXT     NOT NULL,
		check_in_date TEXT     NOT NULL,
		check_in_time TEXT     NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_synthetic_visits_run
		ON synthetic_visits(run_id)`,
}

// Run is one recorded batch run.
type Run struct {
	ID                 string
	SettingsPath       string
	StartedAt          time.Time
	FinishedAt         sql.NullTime
	FilesProcessed     int
	RecordsSynthesized int
	Status             string
	Error              string
}

// SyntheticVisit is one fabricated check-in record tied to a run.
type SyntheticVisit struct {
	RunID       string
	SourceFile  string
	Visitor     string
	CheckInDate string
	CheckInTime string
}

// Store provides access to the audit database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at the given path, enables
// WAL mode and foreign keys, and runs migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating audit directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	if err := configure(db); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
		}
		return nil, err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			closeErr := db.Close()
			if closeErr != nil {
				return nil, fmt.Errorf("migration %d: %w (also failed to close: %v)", i, err, closeErr)
			}
			return nil, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	return &Store{db: db}, nil
}

// configure sets SQLite pragmas for WAL mode and foreign keys.
func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("executing %s: %w", p, err)
		}
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a batch run and returns its ID.
func (s *Store) BeginRun(settingsPath string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, settings_path, started_at) VALUES (?, ?, ?)",
		id, settingsPath, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// FinishRun marks a run finished, recording totals and the failure (if any).
func (s *Store) FinishRun(runID string, files, synthesized int, runErr error) error {
	status, errText := "ok", ""
	if runErr != nil {
		status = "failed"
		errText = runErr.Error()
	}

	result, err := s.db.Exec(
		`UPDATE runs
		 SET finished_at = ?, files_processed = ?, records_synthesized = ?, status = ?, error = ?
		 WHERE id = ?`,
		time.Now().UTC(), files, synthesized, status, errText, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// AddSynthetics records a batch of fabricated visits for one source file.
func (s *Store) AddSynthetics(visits []SyntheticVisit) error {
	if len(visits) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	for _, v := range visits {
		_, err := tx.Exec(
			`INSERT INTO synthetic_visits (run_id, source_file, visitor, check_in_date, check_in_time)
			 VALUES (?, ?, ?, ?, ?)`,
			v.RunID, v.SourceFile, v.Visitor, v.CheckInDate, v.CheckInTime,
		)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("inserting synthetic visit: %w (also rollback failed: %v)", err, rbErr)
			}
			return fmt.Errorf("inserting synthetic visit: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing synthetic visits: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, settings_path, started_at, finished_at,
		        files_processed, records_synthesized, status, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SettingsPath, &r.StartedAt, &r.FinishedAt,
			&r.FilesProcessed, &r.RecordsSynthesized, &r.Status, &r.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// SyntheticsForRun returns the fabricated visits recorded for a run.
func (s *Store) SyntheticsForRun(runID string) ([]SyntheticVisit, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source_file, visitor, check_in_date, check_in_time
		 FROM synthetic_visits WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing synthetic visits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var visits []SyntheticVisit
	for rows.Next() {
		var v SyntheticVisit
		if err := rows.Scan(&v.RunID, &v.SourceFile, &v.Visitor, &v.CheckInDate, &v.CheckInTime); err != nil {
			return nil, fmt.Errorf("scanning synthetic visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating synthetic visits: %w", err)
	}
	return visits, nil
}
