package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(id string) *Run {
	return &Run{
		ID:             id,
		InstanceName:   "scenario.txt",
		Persons:        4,
		Groups:         2,
		MaxFitness:     23,
		PopulationSize: 10,
		Seed:           7,
		StartedAt:      time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestMemoryStore_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.InsertRun(ctx, testRun("run-1")))
	require.NoError(t, store.InsertImprovement(ctx, &Improvement{RunID: "run-1", Generation: 0, Fitness: 20, Assignment: []int{0, 1, 1, 0}}))
	require.NoError(t, store.InsertImprovement(ctx, &Improvement{RunID: "run-1", Generation: 4, Fitness: 23, Assignment: []int{0, 1, 0, 1}}))

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.False(t, run.Finished())

	finishedAt := time.Date(2026, 5, 1, 10, 0, 3, 0, time.UTC)
	require.NoError(t, store.FinishRun(ctx, "run-1", RunResult{FinishedAt: finishedAt, BestFitness: 23, Generations: 9, StopReason: "target fitness reached"}))

	run, err = store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, run.Finished())
	assert.Equal(t, finishedAt, *run.FinishedAt)
	assert.Equal(t, 23, run.BestFitness)
	assert.Equal(t, 9, run.Generations)
	assert.Equal(t, "target fitness reached", run.StopReason)

	improvements, err := store.GetImprovements(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, improvements, 2)
	assert.Equal(t, 4, improvements[1].Generation)
	assert.Equal(t, []int{0, 1, 0, 1}, improvements[1].Assignment)
}

func TestMemoryStore_GetRunsKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.InsertRun(ctx, testRun(id)))
	}

	runs, err := store.GetRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "b", runs[0].ID)
	assert.Equal(t, "c", runs[2].ID)
}

func TestMemoryStore_DuplicateRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.InsertRun(ctx, testRun("run-1")))
	err := store.InsertRun(ctx, testRun("run-1"))
	assert.Error(t, err)
}

func TestMemoryStore_UnknownRun(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetRun(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	_, err = store.GetImprovements(ctx, "missing")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = store.InsertImprovement(ctx, &Improvement{RunID: "missing"})
	assert.True(t, errors.Is(err, ErrRunNotFound))

	err = store.FinishRun(ctx, "missing", RunResult{})
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	assignment := []int{0, 1}
	require.NoError(t, store.InsertRun(ctx, testRun("run-1")))
	require.NoError(t, store.InsertImprovement(ctx, &Improvement{RunID: "run-1", Fitness: 5, Assignment: assignment}))
	assignment[0] = 1

	improvements, err := store.GetImprovements(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, improvements[0].Assignment)

	improvements[0].Assignment[1] = 0
	again, err := store.GetImprovements(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, again[0].Assignment)
}
