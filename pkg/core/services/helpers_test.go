package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/group-allocation/internal/config"
	"github.com/jakechorley/group-allocation/pkg/clients/sheetsclient"
	"github.com/jakechorley/group-allocation/pkg/core/model"
	"github.com/jakechorley/group-allocation/pkg/core/solver"
	"github.com/jakechorley/group-allocation/pkg/db"
)

// scenarioInstance has the unique optimum {0,2} -> group 0, {1,3} -> group 1
func scenarioInstance(t *testing.T) *model.ProblemInstance {
	t.Helper()
	inst, err := model.NewProblemInstance(4, 2, [][]int{
		{5, 1},
		{1, 5},
		{3, 3},
		{0, 10},
	})
	require.NoError(t, err)
	return inst
}

func scenarioRequest(t *testing.T, stop solver.StopCondition) SolveRequest {
	return SolveRequest{
		Instance:     scenarioInstance(t),
		InstanceName: "scenario.txt",
		Params: solver.Params{
			PopulationSize:       10,
			EliteRatio:           solver.DefaultEliteRatio,
			RandomRetentionRatio: solver.DefaultRandomRetentionRatio,
			CrossoverBudgetRatio: solver.DefaultCrossoverBudgetRatio,
		},
		Seed: 42,
		Stop: stop,
	}
}

// failingRunStore wraps a MemoryStore and fails selected operations
type failingRunStore struct {
	*db.MemoryStore
	insertRunErr         error
	insertImprovementErr error
	finishRunErr         error
	getRunsErr           error
}

func newFailingRunStore() *failingRunStore {
	return &failingRunStore{MemoryStore: db.NewMemoryStore()}
}

func (m *failingRunStore) InsertRun(ctx context.Context, run *db.Run) error {
	if m.insertRunErr != nil {
		return m.insertRunErr
	}
	return m.MemoryStore.InsertRun(ctx, run)
}

func (m *failingRunStore) InsertImprovement(ctx context.Context, improvement *db.Improvement) error {
	if m.insertImprovementErr != nil {
		return m.insertImprovementErr
	}
	return m.MemoryStore.InsertImprovement(ctx, improvement)
}

func (m *failingRunStore) FinishRun(ctx context.Context, runID string, result db.RunResult) error {
	if m.finishRunErr != nil {
		return m.finishRunErr
	}
	return m.MemoryStore.FinishRun(ctx, runID, result)
}

func (m *failingRunStore) GetRuns(ctx context.Context) ([]db.Run, error) {
	if m.getRunsErr != nil {
		return nil, m.getRunsErr
	}
	return m.MemoryStore.GetRuns(ctx)
}

// mockPublisher implements AllocationPublisher for testing
type mockPublisher struct {
	published     []*sheetsclient.PublishedAllocation
	spreadsheetID string
	publishErr    error
}

func (m *mockPublisher) PublishAllocation(ctx context.Context, spreadsheetID string, allocation *sheetsclient.PublishedAllocation) (string, error) {
	if m.publishErr != nil {
		return "", m.publishErr
	}
	m.spreadsheetID = spreadsheetID
	m.published = append(m.published, allocation)
	return allocation.TabTitle(), nil
}

func publishConfig() *config.Config {
	cfg := config.Default()
	cfg.Sheets.ResultSheetID = "results-sheet"
	return cfg
}

var errBoom = errors.New("boom")
