package solver

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/jakechorley/group-allocation/pkg/core/model"
)

// AssignmentIncomplete is reported when greedy fill has to place a person
// in a group that no remaining person has a positive preference for.
// It is a warning: the assignment still goes ahead.
type AssignmentIncomplete struct {
	Group      int
	Unassigned int
}

func (e *AssignmentIncomplete) Error() string {
	return fmt.Sprintf("greedy assignment could not fully assign persons to groups: no positive preference left for group %d (%d persons unassigned)",
		e.Group, e.Unassigned)
}

// Config contains everything needed to build a Solver
type Config struct {
	Instance *model.ProblemInstance
	Params   Params

	// Seed for the random source. The same seed replays the same run.
	Seed uint64

	Logger *zap.Logger

	// OnWarning receives non-fatal warnings such as *AssignmentIncomplete.
	// Defaults to logging them at warn level.
	OnWarning func(error)
}

// Solver holds the genetic operators for one problem instance and the
// single random source they share.
type Solver struct {
	inst      *model.ProblemInstance
	params    Params
	rng       *rand.Rand
	logger    *zap.Logger
	onWarning func(error)
}

// New validates the config and builds a Solver
func New(cfg Config) (*Solver, error) {
	if cfg.Instance == nil {
		return nil, fmt.Errorf("problem instance is required")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Solver{
		inst:      cfg.Instance,
		params:    cfg.Params,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		logger:    logger,
		onWarning: cfg.OnWarning,
	}
	if s.onWarning == nil {
		s.onWarning = func(err error) {
			s.logger.Warn("Assignment incomplete", zap.Error(err))
		}
	}

	return s, nil
}

// Instance returns the problem being solved
func (s *Solver) Instance() *model.ProblemInstance {
	return s.inst
}

// Params returns the algorithm parameters
func (s *Solver) Params() Params {
	return s.params
}

// Fitness scores a complete candidate against the solver's instance
func (s *Solver) Fitness(c *Candidate) int {
	return Fitness(s.inst, c)
}
