package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_ZeroValueIsUnassigned(t *testing.T) {
	var s Slot
	_, ok := s.Group()
	assert.False(t, ok)
	assert.False(t, s.IsAssigned())

	g, ok := Assigned(0).Group()
	assert.True(t, ok, "Group 0 should be distinct from unassigned")
	assert.Equal(t, 0, g)
}

func TestCandidate_SetUnsetAndSizes(t *testing.T) {
	c := NewCandidate(5)
	assert.Equal(t, 5, c.UnassignedCount())
	assert.False(t, c.Complete())

	c.Set(0, 1)
	c.Set(1, 1)
	c.Set(2, 0)
	assert.Equal(t, []int{1, 2, 0}, c.GroupSizes(3))
	assert.Equal(t, []int{0, 1}, c.Members(1))

	c.Unset(1)
	assert.Equal(t, []int{1, 1, 0}, c.GroupSizes(3))
	assert.Equal(t, 3, c.UnassignedCount())
}

func TestCandidate_CloneIsIndependent(t *testing.T) {
	c := CandidateFromGroups([]int{0, 1, 0})
	clone := c.Clone()
	clone.Set(0, 1)

	assert.Equal(t, []int{0, 1, 0}, c.Assignment())
	assert.Equal(t, []int{1, 1, 0}, clone.Assignment())
}

func TestCandidate_AssignmentPanicsWhenIncomplete(t *testing.T) {
	c := NewCandidate(2)
	c.Set(0, 0)
	assert.Panics(t, func() { c.Assignment() })
}

func TestFitness_Scenario(t *testing.T) {
	inst := scenarioInstance(t)

	assert.Equal(t, 23, Fitness(inst, CandidateFromGroups([]int{0, 1, 0, 1})))
	assert.Equal(t, 1+1+3+0, Fitness(inst, CandidateFromGroups([]int{1, 0, 1, 0})))
}

func TestFitness_PanicsOnPartialCandidate(t *testing.T) {
	inst := scenarioInstance(t)
	c := CandidateFromGroups([]int{0, 1, 0, 1})
	c.Unset(2)

	assert.Panics(t, func() { Fitness(inst, c) })
}

func TestFitness_NeverExceedsMaxFitness(t *testing.T) {
	inst := randomInstance(t, 30, 4, 7)
	s := newTestSolver(t, inst, smallParams(10), 11)

	for i := 0; i < 200; i++ {
		c := NewCandidate(inst.Persons())
		for p := 0; p < inst.Persons(); p++ {
			c.Set(p, s.rng.IntN(inst.Groups()))
		}
		assert.LessOrEqual(t, Fitness(inst, c), inst.MaxFitness())
	}
}
