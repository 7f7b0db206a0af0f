package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAssignment(t *testing.T) {
	tests := []struct {
		name       string
		persons    int
		groups     int
		assignment []int
		want       []string
	}{
		{"feasible", 4, 2, []int{0, 1, 0, 1}, nil},
		{"uneven but within ceiling", 5, 2, []int{0, 0, 0, 1, 1}, nil},
		{"overfilled", 4, 2, []int{0, 0, 0, 1}, []string{"group 0 is overfilled: has 3 persons but capacity is 2"}},
		{"unknown group", 2, 2, []int{0, 5}, []string{"person 1 assigned to unknown group 5"}},
		{"short", 3, 2, []int{0, 1}, []string{"assignment covers 2 persons, expected 3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateAssignment(tt.persons, tt.groups, tt.assignment)

			var got []string
			for _, err := range errs {
				got = append(got, err.Description)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateAssignment_FeasibleAfterRepair(t *testing.T) {
	inst := randomInstance(t, 23, 4, 3)
	s := newTestSolver(t, inst, smallParams(10), 3)

	for i := 0; i < 20; i++ {
		c := s.RandomCandidate()
		assert.Empty(t, ValidateAssignment(inst.Persons(), inst.Groups(), c.Assignment()))
	}
}

func TestJoinFeasibilityErrors(t *testing.T) {
	assert.NoError(t, JoinFeasibilityErrors(nil))

	err := JoinFeasibilityErrors(ValidateAssignment(2, 1, []int{0, 0, 3}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2")
	assert.Contains(t, err.Error(), "unknown group 3")
}
