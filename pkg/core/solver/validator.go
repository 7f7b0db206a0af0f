package solver

import (
	"errors"
	"fmt"
)

// FeasibilityError describes one way an assignment breaks the capacity rules.
// Person or Group is -1 when the problem is not tied to one.
type FeasibilityError struct {
	Person      int
	Group       int
	Description string
}

func (e FeasibilityError) Error() string {
	return e.Description
}

// ValidateAssignment checks a stored assignment vector (assignment[p] is the
// group of person p) against the problem shape. An empty slice means every
// person is in a valid group and no group holds more than ceil(persons/groups).
func ValidateAssignment(persons, groups int, assignment []int) []FeasibilityError {
	var errs []FeasibilityError

	if len(assignment) != persons {
		errs = append(errs, FeasibilityError{
			Person:      -1,
			Group:       -1,
			Description: fmt.Sprintf("assignment covers %d persons, expected %d", len(assignment), persons),
		})
	}

	if groups <= 0 {
		return append(errs, FeasibilityError{Person: -1, Group: -1, Description: fmt.Sprintf("groups must be positive, got %d", groups)})
	}

	sizes := make([]int, groups)
	for p, g := range assignment {
		if g < 0 || g >= groups {
			errs = append(errs, FeasibilityError{
				Person:      p,
				Group:       g,
				Description: fmt.Sprintf("person %d assigned to unknown group %d", p, g),
			})
			continue
		}
		sizes[g]++
	}

	ceiling := (persons + groups - 1) / groups
	for g, size := range sizes {
		if size > ceiling {
			errs = append(errs, FeasibilityError{
				Person:      -1,
				Group:       g,
				Description: fmt.Sprintf("group %d is overfilled: has %d persons but capacity is %d", g, size, ceiling),
			})
		}
	}

	return errs
}

// JoinFeasibilityErrors folds validation results into a single error, or nil
func JoinFeasibilityErrors(errs []FeasibilityError) error {
	joined := make([]error, len(errs))
	for i, err := range errs {
		joined[i] = err
	}
	return errors.Join(joined...)
}
