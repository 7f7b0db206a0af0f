package solver

// Greedy completes a partially assigned candidate in place.
//
// Each step picks the currently smallest group (lowest index on ties), finds
// the highest preference any unassigned person has for it, and places one of
// the persons tied at that value. The tied person is found by scanning
// circularly from a random start index. A best preference of zero is
// reported as *AssignmentIncomplete and the placement still happens.
func (s *Solver) Greedy(c *Candidate) {
	persons := s.inst.Persons()
	sizes := c.GroupSizes(s.inst.Groups())

	for unassigned := c.UnassignedCount(); unassigned > 0; unassigned-- {
		target := smallestGroup(sizes)

		best := 0
		for p := 0; p < persons; p++ {
			if c.slots[p].assigned {
				continue
			}
			best = max(best, s.inst.Preference(p, target))
		}
		if best == 0 {
			s.onWarning(&AssignmentIncomplete{Group: target, Unassigned: unassigned})
		}

		p := s.rng.IntN(persons)
		for c.slots[p].assigned || s.inst.Preference(p, target) != best {
			p = (p + 1) % persons
		}

		c.Set(p, target)
		sizes[target]++
	}
}

// GreedyCandidate builds a new candidate entirely by greedy fill
func (s *Solver) GreedyCandidate() *Candidate {
	c := NewCandidate(s.inst.Persons())
	s.Greedy(c)
	return c
}

// smallestGroup returns the first group with the minimum size
func smallestGroup(sizes []int) int {
	smallest := 0
	for g, size := range sizes {
		if size < sizes[smallest] {
			smallest = g
		}
	}
	return smallest
}
