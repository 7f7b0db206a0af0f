package solver

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/group-allocation/pkg/core/model"
)

// scenarioInstance is the 4 person / 2 group example with a unique optimum
// {0,2} -> group 0, {1,3} -> group 1 at fitness 23.
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

// randomInstance builds a reproducible instance with preferences in [0, 20]
func randomInstance(t *testing.T, persons, groups int, seed uint64) *model.ProblemInstance {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed))
	rows := make([][]int, persons)
	for p := range rows {
		rows[p] = make([]int, groups)
		for g := range rows[p] {
			rows[p][g] = rng.IntN(21)
		}
	}
	inst, err := model.NewProblemInstance(persons, groups, rows)
	require.NoError(t, err)
	return inst
}

func newTestSolver(t *testing.T, inst *model.ProblemInstance, params Params, seed uint64) *Solver {
	t.Helper()
	s, err := New(Config{
		Instance:  inst,
		Params:    params,
		Seed:      seed,
		OnWarning: func(error) {},
	})
	require.NoError(t, err)
	return s
}

func smallParams(size int) Params {
	return Params{
		PopulationSize:       size,
		EliteRatio:           DefaultEliteRatio,
		RandomRetentionRatio: DefaultRandomRetentionRatio,
		CrossoverBudgetRatio: DefaultCrossoverBudgetRatio,
	}
}

// requireFeasible checks that c is complete and respects the capacity ceiling
func requireFeasible(t *testing.T, inst *model.ProblemInstance, c *Candidate) {
	t.Helper()
	require.Equal(t, inst.Persons(), c.Len())
	require.True(t, c.Complete(), "Candidate should be fully assigned")
	for g, size := range c.GroupSizes(inst.Groups()) {
		require.LessOrEqualf(t, size, inst.Ceiling(), "Group %d exceeds ceiling", g)
	}
}
