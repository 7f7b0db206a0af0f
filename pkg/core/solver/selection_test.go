package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextGeneration_AlwaysPopulationSize(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"defaults", smallParams(40)},
		{"no survivors", Params{PopulationSize: 20}},
		{"all elite", Params{PopulationSize: 20, EliteRatio: 1, CrossoverBudgetRatio: 1}},
		{"all random", Params{PopulationSize: 20, RandomRetentionRatio: 1}},
		{"crossover only budget", Params{PopulationSize: 20, EliteRatio: 0.5, RandomRetentionRatio: 0.5, CrossoverBudgetRatio: 1}},
		{"large crossover budget", Params{PopulationSize: 20, EliteRatio: 0.25, RandomRetentionRatio: 0.25, CrossoverBudgetRatio: 1}},
		{"single candidate", Params{PopulationSize: 1, EliteRatio: 1}},
		{"one survivor", Params{PopulationSize: 10, EliteRatio: 0.1, CrossoverBudgetRatio: 0.5}},
	}

	inst := randomInstance(t, 15, 4, 2)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSolver(t, inst, tt.params, 7)
			population := s.SeedPopulation()

			for gen := 0; gen < 5; gen++ {
				population = s.NextGeneration(population)
				require.Len(t, population, tt.params.PopulationSize)
				for _, ind := range population {
					requireFeasible(t, inst, ind.Candidate)
					assert.Equal(t, Fitness(inst, ind.Candidate), ind.Fitness, "Cached fitness should match")
				}
			}
		})
	}
}

func TestNextGeneration_KeepsEliteUnchanged(t *testing.T) {
	inst := randomInstance(t, 20, 4, 5)
	params := Params{PopulationSize: 8, EliteRatio: 0.25, RandomRetentionRatio: 0.25, CrossoverBudgetRatio: 0.25}
	s := newTestSolver(t, inst, params, 3)

	population := make([]Individual, params.PopulationSize)
	for i := range population {
		c := s.RandomCandidate()
		population[i] = Individual{Candidate: c, Fitness: s.Fitness(c)}
	}

	// Two clear winners
	population[5].Fitness = 1_000_000
	population[2].Fitness = 999_999

	next := s.NextGeneration(population)

	require.Len(t, next, params.PopulationSize)
	assert.Same(t, population[5].Candidate, next[0].Candidate, "Fittest candidate should be carried over first")
	assert.Same(t, population[2].Candidate, next[1].Candidate)
}

func TestNextGeneration_EliteTiesKeepPopulationOrder(t *testing.T) {
	inst := randomInstance(t, 10, 2, 5)
	params := Params{PopulationSize: 4, EliteRatio: 0.5}
	s := newTestSolver(t, inst, params, 3)

	population := make([]Individual, params.PopulationSize)
	for i := range population {
		population[i] = Individual{Candidate: s.RandomCandidate(), Fitness: 10}
	}

	next := s.NextGeneration(population)

	assert.Same(t, population[0].Candidate, next[0].Candidate)
	assert.Same(t, population[1].Candidate, next[1].Candidate)
}

func TestNextGeneration_DoesNotModifyInput(t *testing.T) {
	inst := randomInstance(t, 12, 3, 8)
	s := newTestSolver(t, inst, smallParams(10), 4)

	population := s.SeedPopulation()
	before := make([]*Candidate, len(population))
	for i, ind := range population {
		before[i] = ind.Candidate
	}

	s.NextGeneration(population)

	for i, ind := range population {
		assert.Same(t, before[i], ind.Candidate)
	}
}

func TestNextGeneration_RetainedCandidatesComeFromPopulation(t *testing.T) {
	inst := randomInstance(t, 12, 3, 8)
	params := Params{PopulationSize: 10, EliteRatio: 0.2, RandomRetentionRatio: 0.3}
	s := newTestSolver(t, inst, params, 4)

	population := s.SeedPopulation()
	original := make(map[*Candidate]bool)
	for _, ind := range population {
		original[ind.Candidate] = true
	}

	next := s.NextGeneration(population)

	survivors := params.NumElite() + params.NumRandom()
	seen := make(map[*Candidate]bool)
	for _, ind := range next[:survivors] {
		assert.True(t, original[ind.Candidate], "Survivor should come from the previous population")
		assert.False(t, seen[ind.Candidate], "Survivors should be drawn without replacement")
		seen[ind.Candidate] = true
	}
	for _, ind := range next[survivors:] {
		assert.False(t, original[ind.Candidate], "Fill candidates should be new")
	}
}

func TestSeedPopulation_Size(t *testing.T) {
	inst := randomInstance(t, 12, 3, 8)
	s := newTestSolver(t, inst, smallParams(25), 4)

	population := s.SeedPopulation()

	require.Len(t, population, 25)
	for _, ind := range population {
		requireFeasible(t, inst, ind.Candidate)
	}
}
