package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/db"
)

// RunDetail is a run with its improvement history
type RunDetail struct {
	Run          *db.Run
	Improvements []db.Improvement
}

// Best returns the last, and therefore best, improvement of the run
func (d *RunDetail) Best() (db.Improvement, bool) {
	if len(d.Improvements) == 0 {
		return db.Improvement{}, false
	}
	return d.Improvements[len(d.Improvements)-1], true
}

// ListRuns returns every recorded run, newest first
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger) ([]db.Run, error) {
	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	logger.Debug("Found runs", zap.Int("count", len(runs)))

	newestFirst := make([]db.Run, len(runs))
	for i, run := range runs {
		newestFirst[len(runs)-1-i] = run
	}
	return newestFirst, nil
}

// ShowRun loads a run and its improvements. An empty runID selects the most
// recently started run.
func ShowRun(ctx context.Context, store db.RunStore, logger *zap.Logger, runID string) (*RunDetail, error) {
	run, err := resolveRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	improvements, err := store.GetImprovements(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch improvements for run %s: %w", run.ID, err)
	}

	logger.Debug("Loaded run",
		zap.String("run_id", run.ID),
		zap.Int("improvements", len(improvements)))

	return &RunDetail{Run: run, Improvements: improvements}, nil
}

func resolveRun(ctx context.Context, store db.RunStore, runID string) (*db.Run, error) {
	if runID != "" {
		run, err := store.GetRun(ctx, runID)
		if errors.Is(err, db.ErrRunNotFound) {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
		}
		return run, nil
	}

	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	latest := findLatestRun(runs)
	if latest == nil {
		return nil, fmt.Errorf("no runs recorded: %w", db.ErrRunNotFound)
	}
	return latest, nil
}

// findLatestRun returns the run with the latest start, or nil for no runs
func findLatestRun(runs []db.Run) *db.Run {
	if len(runs) == 0 {
		return nil
	}
	latest := runs[0]
	for _, run := range runs[1:] {
		if run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	return &latest
}
