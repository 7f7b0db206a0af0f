package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jakechorley/group-allocation/pkg/core/solver"
)

// WriteImprovement prints a new best candidate as a membership grid, one row
// per group with an "x" in each member's column, followed by the group sizes
// and the fitness ratio.
//
//	GROUP 0: [ x   x   ]
//	GROUP 1: [   x   x ]
//	Sizes: [ 2 2 ]
//	Fitness of solution: 23/23 (100.00%)
func WriteImprovement(w io.Writer, r solver.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Generation %d (%s)\n", r.Generation, r.Elapsed.Round(time.Millisecond))
	for g := range r.GroupSizes {
		fmt.Fprintf(&b, "GROUP%2d: [ ", g)
		for p := 0; p < r.Candidate.Len(); p++ {
			if group, ok := r.Candidate.Slot(p).Group(); ok && group == g {
				b.WriteString("x ")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteString("]\n")
	}
	b.WriteString(FormatSizes(r.GroupSizes))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Fitness of solution: %d/%d (%.2f%%)\n", r.Fitness, r.MaxFitness, Ratio(r.Fitness, r.MaxFitness)*100)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// FormatSizes renders a group size vector as "Sizes: [ 2 2 ]"
func FormatSizes(sizes []int) string {
	var b strings.Builder
	b.WriteString("Sizes: [ ")
	for _, size := range sizes {
		fmt.Fprintf(&b, "%d ", size)
	}
	b.WriteString("]")
	return b.String()
}

// Ratio is fitness / maxFitness, or 1 when maxFitness is zero
func Ratio(fitness, maxFitness int) float64 {
	if maxFitness == 0 {
		return 1
	}
	return float64(fitness) / float64(maxFitness)
}

// GroupMembers lists the persons in each group for an assignment vector
func GroupMembers(assignment []int, groups int) [][]int {
	members := make([][]int, groups)
	for p, g := range assignment {
		members[g] = append(members[g], p)
	}
	return members
}
