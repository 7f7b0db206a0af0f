package solver

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// Default algorithm parameters
const (
	DefaultPopulationSize       = 1000
	DefaultEliteRatio           = 0.3
	DefaultRandomRetentionRatio = 0.2
	DefaultCrossoverBudgetRatio = 0.2
)

// Params controls how each generation is rebuilt
type Params struct {
	// PopulationSize is the number of candidates kept every generation
	PopulationSize int `validate:"min=1"`

	// EliteRatio is the share of the population carried over by fitness
	EliteRatio float64 `validate:"min=0,max=1"`

	// RandomRetentionRatio is the share of the non-elite candidates kept at random
	RandomRetentionRatio float64 `validate:"min=0,max=1"`

	// CrossoverBudgetRatio caps how many children crossover may produce
	CrossoverBudgetRatio float64 `validate:"min=0,max=1"`
}

var validate = validator.New()

// DefaultParams returns the documented defaults
func DefaultParams() Params {
	return Params{
		PopulationSize:       DefaultPopulationSize,
		EliteRatio:           DefaultEliteRatio,
		RandomRetentionRatio: DefaultRandomRetentionRatio,
		CrossoverBudgetRatio: DefaultCrossoverBudgetRatio,
	}
}

// Validate checks the ranges and that elite + random retention fit in the population
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("solver params validation failed: %w", err)
	}
	if p.EliteRatio+p.RandomRetentionRatio > 1 {
		return fmt.Errorf("eliteRatio + randomRetentionRatio must not exceed 1, got %.3f",
			p.EliteRatio+p.RandomRetentionRatio)
	}
	return nil
}

// NumElite is floor(EliteRatio * PopulationSize)
func (p Params) NumElite() int {
	return ratioCount(p.EliteRatio, p.PopulationSize)
}

// NumRandom is floor(RandomRetentionRatio * PopulationSize)
func (p Params) NumRandom() int {
	return ratioCount(p.RandomRetentionRatio, p.PopulationSize)
}

// NumCrossover is floor(CrossoverBudgetRatio * PopulationSize)
func (p Params) NumCrossover() int {
	return ratioCount(p.CrossoverBudgetRatio, p.PopulationSize)
}

// ratioEpsilon absorbs binary rounding, so 0.29 * 100 counts 29 and not 28
const ratioEpsilon = 1e-9

func ratioCount(ratio float64, size int) int {
	return int(math.Floor(ratio*float64(size) + ratioEpsilon))
}
