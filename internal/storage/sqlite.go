package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"structgrade/internal/grader"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one persisted grading run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Reference string // solution directory or JSON the run graded against
	Passed    int
	Failed    int
	Errors    int
}

// RunResult is one stored submission verdict within a run.
type RunResult struct {
	SubmissionID string
	Status       string
	Comments     string
}

// NewRun stamps a fresh run record for the given reference.
func NewRun(reference string, sum grader.Summary) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Reference: reference,
		Passed:    sum.Passed,
		Failed:    sum.Failed,
		Errors:    sum.Errors,
	}
}

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP,
			reference TEXT,
			passed INTEGER,
			failed INTEGER,
			errors INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT,
			submission_id TEXT,
			status TEXT,
			comments TEXT,
			PRIMARY KEY (run_id, submission_id)
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun persists a run together with its per-submission results in one
// transaction.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, results []grader.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, reference, passed, failed, errors)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt, run.Reference, run.Passed, run.Failed, run.Errors); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (run_id, submission_id, status, comments)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range results {
		comments := strings.Join(r.Comments, "\n")
		if _, err := stmt.Exec(run.ID, r.ID, string(r.Status), comments); err != nil {
			return fmt.Errorf("failed to save result %s/%s: %w", run.ID, r.ID, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns stored runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, reference, passed, failed, errors
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Reference, &r.Passed, &r.Failed, &r.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the stored verdicts of one run, ordered by submission.
func (s *SQLiteStore) RunResults(ctx context.Context, runID string) ([]RunResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT submission_id, status, comments
		FROM results WHERE run_id = ? ORDER BY submission_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []RunResult
	for rows.Next() {
		var r RunResult
		if err := rows.Scan(&r.SubmissionID, &r.Status, &r.Comments); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
