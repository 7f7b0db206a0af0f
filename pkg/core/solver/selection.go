package solver

import (
	"cmp"
	"slices"
)

// NextGeneration builds a new population from the current one:
//
//  1. the NumElite fittest candidates are kept (ties keep population order)
//  2. NumRandom of the remaining candidates are kept, drawn uniformly
//  3. everything else is dropped
//  4. up to NumCrossover children of two distinct survivors are added
//  5. any free slots are filled with repaired random candidates
//
// The result always holds exactly PopulationSize candidates. The input slice
// is not modified.
func (s *Solver) NextGeneration(population []Individual) []Individual {
	size := s.params.PopulationSize

	ranked := slices.Clone(population)
	slices.SortStableFunc(ranked, func(a, b Individual) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})

	next := make([]Individual, 0, size)

	// Elite
	numElite := min(s.params.NumElite(), len(ranked), size)
	next = append(next, ranked[:numElite]...)
	rest := ranked[numElite:]

	// Random retention (partial Fisher-Yates over the non-elite)
	numRandom := min(s.params.NumRandom(), len(rest), size-len(next))
	for i := 0; i < numRandom; i++ {
		j := i + s.rng.IntN(len(rest)-i)
		rest[i], rest[j] = rest[j], rest[i]
		next = append(next, rest[i])
	}

	// Crossover fill from the survivors
	survivors := len(next)
	numCrossover := min(s.params.NumCrossover(), size-len(next))
	if survivors >= 2 {
		for i := 0; i < numCrossover; i++ {
			a := s.rng.IntN(survivors)
			b := s.rng.IntN(survivors - 1)
			if b >= a {
				b++
			}
			child := s.Crossover(next[a].Candidate, next[b].Candidate)
			next = append(next, newIndividual(s.inst, child))
		}
	}

	// Fresh fill
	for len(next) < size {
		next = append(next, newIndividual(s.inst, s.RandomCandidate()))
	}

	return next
}

// SeedPopulation builds PopulationSize greedy candidates. Random tie-breaks
// in Greedy give the initial diversity.
func (s *Solver) SeedPopulation() []Individual {
	population := make([]Individual, s.params.PopulationSize)
	for i := range population {
		population[i] = newIndividual(s.inst, s.GreedyCandidate())
	}
	return population
}

// best returns the first individual with the highest fitness
func best(population []Individual) Individual {
	top := population[0]
	for _, ind := range population[1:] {
		if ind.Fitness > top.Fitness {
			top = ind
		}
	}
	return top
}
