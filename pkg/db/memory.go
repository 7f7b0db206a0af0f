package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps runs for the lifetime of the process. It backs dry runs
// and tests.
type MemoryStore struct {
	mu           sync.RWMutex
	runs         []Run
	index        map[string]int
	improvements map[string][]Improvement
}

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:        make(map[string]int),
		improvements: make(map[string][]Improvement),
	}
}

// InsertRun stores a new run. Run ids must be unique.
func (s *MemoryStore) InsertRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[run.ID]; exists {
		return fmt.Errorf("failed to insert run: duplicate id %s", run.ID)
	}
	s.index[run.ID] = len(s.runs)
	s.runs = append(s.runs, *run)
	return nil
}

// InsertImprovement appends an improvement to an existing run
func (s *MemoryStore) InsertImprovement(_ context.Context, improvement *Improvement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[improvement.RunID]; !exists {
		return fmt.Errorf("failed to insert improvement: %w: %s", ErrRunNotFound, improvement.RunID)
	}
	stored := *improvement
	stored.Assignment = slices.Clone(improvement.Assignment)
	s.improvements[improvement.RunID] = append(s.improvements[improvement.RunID], stored)
	return nil
}

// FinishRun records the outcome of a run
func (s *MemoryStore) FinishRun(_ context.Context, runID string, result RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, exists := s.index[runID]
	if !exists {
		return fmt.Errorf("failed to finish run: %w: %s", ErrRunNotFound, runID)
	}
	finishedAt := result.FinishedAt
	s.runs[i].FinishedAt = &finishedAt
	s.runs[i].BestFitness = result.BestFitness
	s.runs[i].Generations = result.Generations
	s.runs[i].StopReason = result.StopReason
	return nil
}

// GetRuns returns every run in insertion order
func (s *MemoryStore) GetRuns(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.runs), nil
}

// GetRun returns a single run or ErrRunNotFound
func (s *MemoryStore) GetRun(_ context.Context, runID string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, exists := s.index[runID]
	if !exists {
		return nil, ErrRunNotFound
	}
	run := s.runs[i]
	return &run, nil
}

// GetImprovements returns a run's improvements in the order they were found
func (s *MemoryStore) GetImprovements(_ context.Context, runID string) ([]Improvement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.index[runID]; !exists {
		return nil, ErrRunNotFound
	}
	improvements := make([]Improvement, len(s.improvements[runID]))
	for i, imp := range s.improvements[runID] {
		improvements[i] = imp
		improvements[i].Assignment = slices.Clone(imp.Assignment)
	}
	return improvements, nil
}
