package solver

import (
	"fmt"

	"github.com/jakechorley/group-allocation/pkg/core/model"
)

// Fitness sums each person's preference for the group they are placed in.
// Panics on a partially assigned candidate.
func Fitness(inst *model.ProblemInstance, c *Candidate) int {
	fitness := 0
	for p, s := range c.slots {
		if !s.assigned {
			panic(fmt.Sprintf("solver: fitness of incomplete candidate (person %d unassigned)", p))
		}
		fitness += inst.Preference(p, s.group)
	}
	return fitness
}

// Individual is a population member with its fitness cached
type Individual struct {
	Candidate *Candidate
	Fitness   int
}

func newIndividual(inst *model.ProblemInstance, c *Candidate) Individual {
	return Individual{Candidate: c, Fitness: Fitness(inst, c)}
}
