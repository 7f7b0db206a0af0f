package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/group-allocation/pkg/db"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	d, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func insertRun(t *testing.T, d *DB, id string, startedAt time.Time) {
	t.Helper()

	require.NoError(t, d.InsertRun(context.Background(), &db.Run{
		ID:             id,
		InstanceName:   "scenario.txt",
		Persons:        4,
		Groups:         2,
		MaxFitness:     23,
		PopulationSize: 10,
		Seed:           ^uint64(0) - 1,
		StartedAt:      startedAt,
	}))
}

func TestDB_RunLifecycle(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	startedAt := time.Date(2026, 5, 1, 10, 0, 0, 123000000, time.UTC)

	insertRun(t, d, "run-1", startedAt)
	require.NoError(t, d.InsertImprovement(ctx, &db.Improvement{RunID: "run-1", Generation: 0, Fitness: 21, Assignment: []int{0, 1, 1, 0}}))
	require.NoError(t, d.InsertImprovement(ctx, &db.Improvement{RunID: "run-1", Generation: 3, Fitness: 23, Assignment: []int{0, 1, 0, 1}}))

	run, err := d.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, run.Finished())
	assert.Equal(t, ^uint64(0)-1, run.Seed)
	assert.True(t, startedAt.Equal(run.StartedAt))

	finishedAt := startedAt.Add(1500 * time.Millisecond)
	require.NoError(t, d.FinishRun(ctx, "run-1", db.RunResult{FinishedAt: finishedAt, BestFitness: 23, Generations: 8, StopReason: "target fitness reached"}))

	run, err = d.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, run.Finished())
	assert.True(t, finishedAt.Equal(*run.FinishedAt))
	assert.Equal(t, 23, run.BestFitness)
	assert.Equal(t, 8, run.Generations)
	assert.Equal(t, "target fitness reached", run.StopReason)

	improvements, err := d.GetImprovements(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, improvements, 2)
	assert.Equal(t, 0, improvements[0].Generation)
	assert.Equal(t, []int{0, 1, 0, 1}, improvements[1].Assignment)
	assert.False(t, improvements[1].RecordedAt.IsZero())
}

func TestDB_GetRunsOrderedByStart(t *testing.T) {
	d := openTestDB(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	insertRun(t, d, "later", base.Add(time.Hour))
	insertRun(t, d, "earlier", base)

	runs, err := d.GetRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "earlier", runs[0].ID)
	assert.Equal(t, "later", runs[1].ID)
}

func TestDB_GetRunsOrderedWithinOneSecond(t *testing.T) {
	d := openTestDB(t)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	insertRun(t, d, "newer", base.Add(150*time.Millisecond))
	insertRun(t, d, "older", base.Add(100*time.Millisecond))
	insertRun(t, d, "oldest", base)

	runs, err := d.GetRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "oldest", runs[0].ID)
	assert.Equal(t, "older", runs[1].ID)
	assert.Equal(t, "newer", runs[2].ID)
	assert.True(t, base.Add(100*time.Millisecond).Equal(runs[1].StartedAt))
}

func TestFormatTime_FixedWidth(t *testing.T) {
	whole := formatTime(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	fraction := formatTime(time.Date(2026, 5, 1, 12, 0, 0, 150000000, time.FixedZone("CEST", 2*60*60)))

	assert.Equal(t, "2026-05-01T12:00:00.000000000Z", whole)
	assert.Equal(t, "2026-05-01T10:00:00.150000000Z", fraction)
	assert.Len(t, fraction, len(whole))
}

func TestDB_UnknownRun(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	_, err := d.GetRun(ctx, "missing")
	assert.True(t, errors.Is(err, db.ErrRunNotFound))

	_, err = d.GetImprovements(ctx, "missing")
	assert.True(t, errors.Is(err, db.ErrRunNotFound))

	err = d.FinishRun(ctx, "missing", db.RunResult{FinishedAt: time.Now()})
	assert.True(t, errors.Is(err, db.ErrRunNotFound))

	err = d.InsertImprovement(ctx, &db.Improvement{RunID: "missing", Assignment: []int{0}})
	assert.Error(t, err, "Foreign key rejects improvements of unknown runs")
}

func TestDB_DuplicateRun(t *testing.T) {
	d := openTestDB(t)
	now := time.Now()

	insertRun(t, d, "run-1", now)
	err := d.InsertRun(context.Background(), &db.Run{ID: "run-1", StartedAt: now})
	assert.Error(t, err)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestOpen_ReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	d, err := Open(ctx, path)
	require.NoError(t, err)
	insertRun(t, d, "run-1", time.Now())
	require.NoError(t, d.Close())

	d, err = Open(ctx, path)
	require.NoError(t, err)
	defer d.Close()

	runs, err := d.GetRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
