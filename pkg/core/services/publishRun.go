package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/internal/config"
	"github.com/jakechorley/group-allocation/pkg/clients/sheetsclient"
	"github.com/jakechorley/group-allocation/pkg/core/solver"
	"github.com/jakechorley/group-allocation/pkg/db"
	"github.com/jakechorley/group-allocation/pkg/report"
)

// AllocationPublisher writes allocations to a spreadsheet
type AllocationPublisher interface {
	PublishAllocation(ctx context.Context, spreadsheetID string, allocation *sheetsclient.PublishedAllocation) (string, error)
}

// PublishResult represents the outcome of publishing a run
type PublishResult struct {
	Run        *db.Run
	Allocation *sheetsclient.PublishedAllocation
	TabTitle   string
}

// PublishRun writes the best assignment of a run to the result spreadsheet.
// An empty runID publishes the most recently started run.
func PublishRun(
	ctx context.Context,
	store db.RunStore,
	publisher AllocationPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	runID string,
) (*PublishResult, error) {
	if cfg.Sheets.ResultSheetID == "" {
		return nil, fmt.Errorf("sheets.resultSheetID must be configured to publish runs")
	}

	detail, err := ShowRun(ctx, store, logger, runID)
	if err != nil {
		return nil, err
	}

	best, ok := detail.Best()
	if !ok {
		return nil, fmt.Errorf("run %s has no recorded improvements to publish", detail.Run.ID)
	}
	if err := solver.JoinFeasibilityErrors(solver.ValidateAssignment(detail.Run.Persons, detail.Run.Groups, best.Assignment)); err != nil {
		return nil, fmt.Errorf("run %s has an infeasible best assignment: %w", detail.Run.ID, err)
	}

	allocation := &sheetsclient.PublishedAllocation{
		RunID:        detail.Run.ID,
		InstanceName: detail.Run.InstanceName,
		StartedAt:    detail.Run.StartedAt,
		Generation:   best.Generation,
		Fitness:      best.Fitness,
		MaxFitness:   detail.Run.MaxFitness,
		Members:      report.GroupMembers(best.Assignment, detail.Run.Groups),
	}

	logger.Info("Publishing run",
		zap.String("run_id", detail.Run.ID),
		zap.Int("fitness", best.Fitness),
		zap.String("spreadsheet_id", cfg.Sheets.ResultSheetID))

	title, err := publisher.PublishAllocation(ctx, cfg.Sheets.ResultSheetID, allocation)
	if err != nil {
		return nil, fmt.Errorf("failed to publish run %s: %w", detail.Run.ID, err)
	}

	logger.Debug("Run published", zap.String("tab", title))

	return &PublishResult{Run: detail.Run, Allocation: allocation, TabTitle: title}, nil
}
