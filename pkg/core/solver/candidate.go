package solver

import (
	"fmt"
	"slices"
)

// Slot is one person's placement. The zero value is unassigned, which keeps
// "no group yet" distinct from group 0.
type Slot struct {
	group    int
	assigned bool
}

// Assigned returns a slot placing the person in group g
func Assigned(g int) Slot {
	return Slot{group: g, assigned: true}
}

// Group returns the slot's group and whether one is set
func (s Slot) Group() (int, bool) {
	return s.group, s.assigned
}

// IsAssigned reports whether the slot holds a group
func (s Slot) IsAssigned() bool {
	return s.assigned
}

// Candidate is one person -> group assignment vector.
//
// Candidates stored in a population are fully assigned and never mutated
// again, so the same pointer can be carried across generations.
type Candidate struct {
	slots []Slot
}

// NewCandidate returns a candidate with every person unassigned
func NewCandidate(persons int) *Candidate {
	return &Candidate{slots: make([]Slot, persons)}
}

// CandidateFromGroups builds a fully assigned candidate from a plain
// assignment vector (groups[p] is person p's group).
func CandidateFromGroups(groups []int) *Candidate {
	c := NewCandidate(len(groups))
	for p, g := range groups {
		c.slots[p] = Assigned(g)
	}
	return c
}

// Len returns the number of persons covered by the candidate
func (c *Candidate) Len() int {
	return len(c.slots)
}

// Slot returns person p's slot
func (c *Candidate) Slot(p int) Slot {
	return c.slots[p]
}

// Set places person p in group g
func (c *Candidate) Set(p, g int) {
	c.slots[p] = Assigned(g)
}

// Unset removes person p from their group
func (c *Candidate) Unset(p int) {
	c.slots[p] = Slot{}
}

// Clone returns an independent copy
func (c *Candidate) Clone() *Candidate {
	return &Candidate{slots: slices.Clone(c.slots)}
}

// UnassignedCount returns how many persons have no group
func (c *Candidate) UnassignedCount() int {
	count := 0
	for _, s := range c.slots {
		if !s.assigned {
			count++
		}
	}
	return count
}

// Complete reports whether every person has a group
func (c *Candidate) Complete() bool {
	return c.UnassignedCount() == 0
}

// GroupSizes counts the assigned members of each group
func (c *Candidate) GroupSizes(groups int) []int {
	sizes := make([]int, groups)
	for _, s := range c.slots {
		if s.assigned {
			sizes[s.group]++
		}
	}
	return sizes
}

// Members returns the persons currently assigned to group g, in index order
func (c *Candidate) Members(g int) []int {
	var members []int
	for p, s := range c.slots {
		if s.assigned && s.group == g {
			members = append(members, p)
		}
	}
	return members
}

// Assignment returns the plain assignment vector.
// Panics if the candidate is incomplete.
func (c *Candidate) Assignment() []int {
	groups := make([]int, len(c.slots))
	for p, s := range c.slots {
		if !s.assigned {
			panic(fmt.Sprintf("solver: person %d is unassigned", p))
		}
		groups[p] = s.group
	}
	return groups
}
