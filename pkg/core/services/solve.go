package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/core/model"
	"github.com/jakechorley/group-allocation/pkg/core/solver"
	"github.com/jakechorley/group-allocation/pkg/db"
)

// StopReasonFailed is recorded when a run ends with an error
const StopReasonFailed = "failed"

// SolveRequest describes one solver run
type SolveRequest struct {
	Instance     *model.ProblemInstance
	InstanceName string
	Params       solver.Params
	Seed         uint64
	Stop         solver.StopCondition
}

// SolveResult represents the outcome of a run
type SolveResult struct {
	Run          *db.Run
	Summary      solver.Summary
	Improvements int
	Warnings     int
}

// Solve runs the genetic algorithm on req.Instance and records the run and
// every improvement in store. onImprovement, if set, sees each improvement
// before it is stored. The run is finished in the store even when ctx is
// cancelled, so an interrupted solve still leaves its best result behind.
func Solve(ctx context.Context, store db.RunStore, logger *zap.Logger, req SolveRequest, onImprovement func(solver.Report) error) (*SolveResult, error) {
	if req.Instance == nil {
		return nil, fmt.Errorf("problem instance is required")
	}

	run := &db.Run{
		ID:             uuid.New().String(),
		InstanceName:   req.InstanceName,
		Persons:        req.Instance.Persons(),
		Groups:         req.Instance.Groups(),
		MaxFitness:     req.Instance.MaxFitness(),
		PopulationSize: req.Params.PopulationSize,
		Seed:           req.Seed,
		StartedAt:      time.Now().UTC(),
	}
	runLogger := logger.With(zap.String("run_id", run.ID))
	result := &SolveResult{Run: run}

	s, err := solver.New(solver.Config{
		Instance: req.Instance,
		Params:   req.Params,
		Seed:     req.Seed,
		Logger:   runLogger,
		OnWarning: func(err error) {
			result.Warnings++
			runLogger.Warn("Assignment incomplete", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create solver: %w", err)
	}

	// Store writes must outlive a cancelled solve
	storeCtx := context.WithoutCancel(ctx)

	if err := store.InsertRun(storeCtx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	runLogger.Info("Starting solve",
		zap.String("instance", req.InstanceName),
		zap.Int("persons", run.Persons),
		zap.Int("groups", run.Groups),
		zap.Int("max_fitness", run.MaxFitness),
		zap.Uint64("seed", req.Seed))

	evolver := solver.NewEvolver(s)
	summary, runErr := evolver.Run(ctx, req.Stop, func(r solver.Report) error {
		if onImprovement != nil {
			if err := onImprovement(r); err != nil {
				return err
			}
		}
		result.Improvements++
		return store.InsertImprovement(storeCtx, &db.Improvement{
			RunID:      run.ID,
			Generation: r.Generation,
			Fitness:    r.Fitness,
			Assignment: r.Candidate.Assignment(),
			RecordedAt: time.Now().UTC(),
		})
	})
	result.Summary = summary

	finish := db.RunResult{
		FinishedAt:  time.Now().UTC(),
		BestFitness: summary.Best.Fitness,
		Generations: summary.Generations,
		StopReason:  string(summary.Reason),
	}
	if runErr != nil {
		finish.StopReason = StopReasonFailed
	}

	if err := store.FinishRun(storeCtx, run.ID, finish); err != nil {
		if runErr != nil {
			runLogger.Error("Failed to record run outcome", zap.Error(err))
			return result, runErr
		}
		return result, fmt.Errorf("failed to record run outcome: %w", err)
	}
	run.FinishedAt = &finish.FinishedAt
	run.BestFitness = finish.BestFitness
	run.Generations = finish.Generations
	run.StopReason = finish.StopReason

	if runErr != nil {
		return result, runErr
	}

	runLogger.Info("Solve finished",
		zap.String("reason", string(summary.Reason)),
		zap.Int("generations", summary.Generations),
		zap.Int("best_fitness", summary.Best.Fitness),
		zap.Int("improvements", result.Improvements),
		zap.Duration("elapsed", summary.Elapsed))

	return result, nil
}
