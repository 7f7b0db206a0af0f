package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/group-allocation/pkg/core/solver"
)

func TestWriteImprovement(t *testing.T) {
	var buf bytes.Buffer
	err := WriteImprovement(&buf, solver.Report{
		Generation: 3,
		Candidate:  solver.CandidateFromGroups([]int{0, 1, 0, 1}),
		GroupSizes: []int{2, 2},
		Fitness:    23,
		MaxFitness: 23,
		Elapsed:    1500 * time.Millisecond,
	})
	require.NoError(t, err)

	expected := "Generation 3 (1.5s)\n" +
		"GROUP 0: [ x   x   ]\n" +
		"GROUP 1: [   x   x ]\n" +
		"Sizes: [ 2 2 ]\n" +
		"Fitness of solution: 23/23 (100.00%)\n"
	assert.Equal(t, expected, buf.String())
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.5, Ratio(5, 10))
	assert.Equal(t, 1.0, Ratio(0, 0), "Zero max fitness should not divide by zero")
}

func TestGroupMembers(t *testing.T) {
	assert.Equal(t, [][]int{{0, 2}, {1, 3}, nil}, GroupMembers([]int{0, 1, 0, 1}, 3))
}
