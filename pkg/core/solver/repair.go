package solver

import "fmt"

// Repair restores the capacity ceiling in place. Every group above
// ceil(persons/groups) loses uniformly random members until it fits, then
// the evicted persons are placed by Greedy. Under-filled groups are only
// topped up as far as greedy fill does naturally.
func (s *Solver) Repair(c *Candidate) {
	groups := s.inst.Groups()
	ceiling := s.inst.Ceiling()
	if ceiling*groups < s.inst.Persons() {
		panic(fmt.Sprintf("solver: capacity %d x %d cannot hold %d persons", ceiling, groups, s.inst.Persons()))
	}

	sizes := c.GroupSizes(groups)
	for g := range sizes {
		if sizes[g] <= ceiling {
			continue
		}

		members := c.Members(g)
		for sizes[g] > ceiling {
			i := s.rng.IntN(len(members))
			c.Unset(members[i])
			members[i] = members[len(members)-1]
			members = members[:len(members)-1]
			sizes[g]--
		}
	}

	s.Greedy(c)
}

// RandomCandidate places every person in an independently random group and
// repairs the result.
func (s *Solver) RandomCandidate() *Candidate {
	c := NewCandidate(s.inst.Persons())
	for p := range c.slots {
		c.Set(p, s.rng.IntN(s.inst.Groups()))
	}
	s.Repair(c)
	return c
}
