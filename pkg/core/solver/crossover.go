package solver

import "fmt"

// Crossover builds a child taking the first half of the persons from a and
// the rest from b, then repairs it. The midpoint is fixed at persons/2.
func (s *Solver) Crossover(a, b *Candidate) *Candidate {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("solver: crossover of candidates with lengths %d and %d", a.Len(), b.Len()))
	}

	mid := a.Len() / 2
	child := NewCandidate(a.Len())
	copy(child.slots[:mid], a.slots[:mid])
	copy(child.slots[mid:], b.slots[mid:])

	s.Repair(child)
	return child
}
