package model

import (
	"fmt"
	"math"
	"slices"
)

// ProblemInstance is an immutable preference matrix: Preference(p, g) is
// how much person p wants to be placed in group g.
type ProblemInstance struct {
	persons    int
	groups     int
	preference [][]int
	maxFitness int
}

// NewProblemInstance validates the matrix and derives MaxFitness.
// The rows are copied so later changes by the caller have no effect.
func NewProblemInstance(persons, groups int, preference [][]int) (*ProblemInstance, error) {
	if persons <= 0 {
		return nil, fmt.Errorf("persons must be positive, got %d", persons)
	}
	if groups <= 0 {
		return nil, fmt.Errorf("groups must be positive, got %d", groups)
	}
	if len(preference) != persons {
		return nil, fmt.Errorf("expected %d preference rows, got %d", persons, len(preference))
	}

	rows := make([][]int, persons)
	maxFitness := 0
	for p, row := range preference {
		if len(row) != groups {
			return nil, fmt.Errorf("person %d has %d preferences, expected %d", p, len(row), groups)
		}
		best := 0
		for g, value := range row {
			if value < 0 {
				return nil, fmt.Errorf("person %d has negative preference %d for group %d", p, value, g)
			}
			best = max(best, value)
		}
		if best > math.MaxInt-maxFitness {
			return nil, fmt.Errorf("preferences too large: maximum fitness overflows at person %d", p)
		}
		rows[p] = slices.Clone(row)
		maxFitness += best
	}

	return &ProblemInstance{
		persons:    persons,
		groups:     groups,
		preference: rows,
		maxFitness: maxFitness,
	}, nil
}

// Persons returns the number of persons to place
func (pi *ProblemInstance) Persons() int {
	return pi.persons
}

// Groups returns the number of destination groups
func (pi *ProblemInstance) Groups() int {
	return pi.groups
}

// Preference returns person p's value for group g
func (pi *ProblemInstance) Preference(p, g int) int {
	return pi.preference[p][g]
}

// MaxFitness is the sum of every person's best preference. No assignment
// can score higher.
func (pi *ProblemInstance) MaxFitness() int {
	return pi.maxFitness
}

// Ceiling is the soft capacity of every group: ceil(persons/groups)
func (pi *ProblemInstance) Ceiling() int {
	return (pi.persons + pi.groups - 1) / pi.groups
}

// Rows returns a copy of the preference matrix
func (pi *ProblemInstance) Rows() [][]int {
	rows := make([][]int, pi.persons)
	for p, row := range pi.preference {
		rows[p] = slices.Clone(row)
	}
	return rows
}
