package solver

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StopCondition lists optional limits for Run. Zero values disable a limit;
// with every limit disabled Run continues until its context is cancelled.
type StopCondition struct {
	MaxGenerations int
	TargetFitness  int
	TimeBudget     time.Duration
}

// StopReason explains why Run returned
type StopReason string

const (
	StopCancelled   StopReason = "cancelled"
	StopGenerations StopReason = "generation limit reached"
	StopTarget      StopReason = "target fitness reached"
	StopTimeBudget  StopReason = "time budget exhausted"
)

// Report describes a new best candidate
type Report struct {
	Generation int
	Candidate  *Candidate
	GroupSizes []int
	Fitness    int
	MaxFitness int
	Elapsed    time.Duration
}

// Generation is the outcome of one Step
type Generation struct {
	Index    int
	Best     Individual
	Improved bool
}

// Summary is returned when Run stops
type Summary struct {
	Generations int
	Best        Individual
	Reason      StopReason
	Elapsed     time.Duration
}

// Evolver owns a population and advances it one generation at a time.
// Calling Step repeatedly is the unbounded evolution loop; Run adds stop
// conditions and reporting on top.
type Evolver struct {
	solver     *Solver
	population []Individual
	generation int
	best       Individual
	hasBest    bool
}

// NewEvolver seeds a greedy population
func NewEvolver(s *Solver) *Evolver {
	return &Evolver{
		solver:     s,
		population: s.SeedPopulation(),
	}
}

// Step runs one generation and reports whether its best candidate strictly
// beats every earlier generation.
func (e *Evolver) Step() Generation {
	e.population = e.solver.NextGeneration(e.population)
	e.generation++

	top := best(e.population)
	improved := !e.hasBest || top.Fitness > e.best.Fitness
	if improved {
		e.best = top
		e.hasBest = true
	}

	return Generation{Index: e.generation, Best: top, Improved: improved}
}

// Best returns the best candidate seen by Step so far
func (e *Evolver) Best() (Individual, bool) {
	return e.best, e.hasBest
}

// Generations returns how many steps have run
func (e *Evolver) Generations() int {
	return e.generation
}

// Population returns a copy of the current population
func (e *Evolver) Population() []Individual {
	out := make([]Individual, len(e.population))
	copy(out, e.population)
	return out
}

// Run steps until a stop condition is met or ctx is cancelled, calling report
// for every improvement. Reported fitness values are strictly increasing.
// An error from report aborts the run.
//
// MaxGenerations and TimeBudget both count from the start of this call, so a
// resumed Run gets a fresh allowance. Summary.Generations is the total over
// every call.
func (e *Evolver) Run(ctx context.Context, stop StopCondition, report func(Report) error) (Summary, error) {
	start := time.Now()
	startGeneration := e.generation
	inst := e.solver.inst
	logger := e.solver.logger

	logger.Debug("Starting evolution",
		zap.Int("persons", inst.Persons()),
		zap.Int("groups", inst.Groups()),
		zap.Int("population_size", e.solver.params.PopulationSize),
		zap.Int("max_generations", stop.MaxGenerations),
		zap.Int("target_fitness", stop.TargetFitness),
		zap.Duration("time_budget", stop.TimeBudget))

	summary := func(reason StopReason) Summary {
		return Summary{
			Generations: e.generation,
			Best:        e.best,
			Reason:      reason,
			Elapsed:     time.Since(start),
		}
	}

	for {
		if ctx.Err() != nil {
			return summary(StopCancelled), nil
		}
		if stop.MaxGenerations > 0 && e.generation-startGeneration >= stop.MaxGenerations {
			return summary(StopGenerations), nil
		}
		if stop.TimeBudget > 0 && time.Since(start) >= stop.TimeBudget {
			return summary(StopTimeBudget), nil
		}

		gen := e.Step()
		if gen.Improved {
			logger.Debug("New best candidate",
				zap.Int("generation", gen.Index),
				zap.Int("fitness", gen.Best.Fitness),
				zap.Int("max_fitness", inst.MaxFitness()))

			if report != nil {
				err := report(Report{
					Generation: gen.Index,
					Candidate:  gen.Best.Candidate,
					GroupSizes: gen.Best.Candidate.GroupSizes(inst.Groups()),
					Fitness:    gen.Best.Fitness,
					MaxFitness: inst.MaxFitness(),
					Elapsed:    time.Since(start),
				})
				if err != nil {
					return summary(StopCancelled), fmt.Errorf("failed to report generation %d: %w", gen.Index, err)
				}
			}
		}

		if stop.TargetFitness > 0 && e.best.Fitness >= stop.TargetFitness {
			return summary(StopTarget), nil
		}
	}
}
