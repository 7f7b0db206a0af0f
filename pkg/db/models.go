package db

import "time"

// Run is one invocation of the solver against an instance
type Run struct {
	ID             string
	InstanceName   string
	Persons        int
	Groups         int
	MaxFitness     int
	PopulationSize int
	Seed           uint64
	StartedAt      time.Time
	// Fields below are set by FinishRun. FinishedAt is nil while the run is
	// in progress or if the process died before finishing it.
	FinishedAt  *time.Time
	BestFitness int
	Generations int
	StopReason  string
}

// Finished reports whether FinishRun has been recorded for the run
func (r Run) Finished() bool {
	return r.FinishedAt != nil
}

// RunResult is what FinishRun records at the end of a run
type RunResult struct {
	FinishedAt  time.Time
	BestFitness int
	Generations int
	StopReason  string
}

// Improvement is a strictly better candidate found during a run.
// Assignment[p] is the group of person p.
type Improvement struct {
	RunID      string
	Generation int
	Fitness    int
	Assignment []int
	RecordedAt time.Time
}
