package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned when a run id has no record
var ErrRunNotFound = errors.New("run not found")

// RunStore records solver runs and the improvements found during each one.
// postgres.DB, sqlite.DB and MemoryStore implement it.
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
	InsertImprovement(ctx context.Context, improvement *Improvement) error
	FinishRun(ctx context.Context, runID string, result RunResult) error
	// GetRuns returns every run, oldest first
	GetRuns(ctx context.Context) ([]Run, error)
	GetRun(ctx context.Context, runID string) (*Run, error)
	// GetImprovements returns a run's improvements in generation order
	GetImprovements(ctx context.Context, runID string) ([]Improvement, error)
}
