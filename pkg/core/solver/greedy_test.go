package solver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/group-allocation/pkg/core/model"
)

func TestGreedy_ScenarioFindsOptimum(t *testing.T) {
	inst := scenarioInstance(t)

	// No preference ties in this instance, so every seed gives the same result
	for seed := uint64(1); seed <= 5; seed++ {
		s := newTestSolver(t, inst, smallParams(4), seed)
		c := s.GreedyCandidate()

		assert.Equal(t, []int{0, 1, 0, 1}, c.Assignment())
		assert.Equal(t, 23, s.Fitness(c))
	}
}

func TestGreedy_CompletesPartialCandidate(t *testing.T) {
	inst := randomInstance(t, 25, 4, 3)
	s := newTestSolver(t, inst, smallParams(4), 42)

	c := NewCandidate(inst.Persons())
	c.Set(0, 2)
	c.Set(5, 2)
	c.Set(9, 1)

	s.Greedy(c)

	requireFeasible(t, inst, c)
	g, _ := c.Slot(0).Group()
	assert.Equal(t, 2, g, "Existing assignments should be kept")
}

func TestGreedy_FillsSmallestGroupFirst(t *testing.T) {
	inst, err := model.NewProblemInstance(3, 3, [][]int{
		{9, 1, 1},
		{9, 1, 1},
		{9, 1, 1},
	})
	require.NoError(t, err)
	s := newTestSolver(t, inst, smallParams(2), 1)

	c := s.GreedyCandidate()

	// Group sizes rise evenly even though everyone prefers group 0
	assert.Equal(t, []int{1, 1, 1}, c.GroupSizes(3))
}

func TestGreedy_DeterministicForSameSeed(t *testing.T) {
	inst := randomInstance(t, 40, 5, 9)

	partial := NewCandidate(inst.Persons())
	partial.Set(3, 0)
	partial.Set(17, 4)

	first := partial.Clone()
	second := partial.Clone()
	newTestSolver(t, inst, smallParams(4), 1234).Greedy(first)
	newTestSolver(t, inst, smallParams(4), 1234).Greedy(second)

	assert.Equal(t, first.Assignment(), second.Assignment())
}

func TestGreedy_WarnsOnZeroPreference(t *testing.T) {
	inst, err := model.NewProblemInstance(2, 2, [][]int{
		{0, 0},
		{0, 0},
	})
	require.NoError(t, err)

	var warnings []error
	s, err := New(Config{
		Instance:  inst,
		Params:    smallParams(2),
		Seed:      1,
		OnWarning: func(err error) { warnings = append(warnings, err) },
	})
	require.NoError(t, err)

	c := s.GreedyCandidate()

	requireFeasible(t, inst, c)
	require.Len(t, warnings, 2, "Each forced placement should warn")

	var incomplete *AssignmentIncomplete
	require.True(t, errors.As(warnings[0], &incomplete))
	assert.Equal(t, 0, incomplete.Group)
	assert.Equal(t, 2, incomplete.Unassigned)
}

func TestGreedy_DefaultWarningIsLogged(t *testing.T) {
	inst, err := model.NewProblemInstance(1, 1, [][]int{{0}})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := New(Config{
		Instance: inst,
		Params:   smallParams(1),
		Seed:     1,
		Logger:   zap.New(core),
	})
	require.NoError(t, err)

	s.GreedyCandidate()

	entries := logs.FilterMessage("Assignment incomplete").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}
