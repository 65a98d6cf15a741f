package storage

import (
	"context"

	"structgrade/internal/grader"
)

// RunStore defines operations for persisting grading runs.
type RunStore interface {
	// SaveRun persists a run record and its submission results.
	SaveRun(ctx context.Context, run *Run, results []grader.Result) error

	// ListRuns retrieves recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// RunResults retrieves the stored verdicts of one run.
	RunResults(ctx context.Context, runID string) ([]RunResult, error)

	Close() error
}
