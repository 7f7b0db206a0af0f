package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/group-allocation/pkg/db"
)

const runColumns = `id, instance_name, person_count, group_count, max_fitness, population_size, seed,
	started_at, finished_at, best_fitness, generations, stop_reason`

// InsertRun inserts a new run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO run (id, instance_name, person_count, group_count, max_fitness, population_size, seed, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, run.ID, run.InstanceName, run.Persons, run.Groups, run.MaxFitness, run.PopulationSize,
		// seeds use the full uint64 range; BIGINT keeps the bit pattern
		int64(run.Seed), run.StartedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// InsertImprovement inserts an improvement for an existing run
func (d *DB) InsertImprovement(ctx context.Context, improvement *db.Improvement) error {
	recordedAt := improvement.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO improvement (run_id, generation, fitness, assignment, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`, improvement.RunID, improvement.Generation, improvement.Fitness, toInt32s(improvement.Assignment), recordedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert improvement: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run
func (d *DB) FinishRun(ctx context.Context, runID string, result db.RunResult) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE run
		SET finished_at = $2, best_fitness = $3, generations = $4, stop_reason = $5
		WHERE id = $1
	`, runID, result.FinishedAt.UTC(), result.BestFitness, result.Generations, result.StopReason)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to finish run: %w: %s", db.ErrRunNotFound, runID)
	}
	return nil
}

// GetRuns retrieves all runs, oldest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+runColumns+` FROM run ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves a single run
func (d *DB) GetRun(ctx context.Context, runID string) (*db.Run, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM run WHERE id = $1`, runID)
	run, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrRunNotFound
	}
	return run, err
}

// GetImprovements retrieves the improvements of a run in generation order
func (d *DB) GetImprovements(ctx context.Context, runID string) ([]db.Improvement, error) {
	if _, err := d.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(ctx, `
		SELECT run_id, generation, fitness, assignment, recorded_at
		FROM improvement
		WHERE run_id = $1
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query improvements: %w", err)
	}
	defer rows.Close()

	var improvements []db.Improvement
	for rows.Next() {
		var imp db.Improvement
		var assignment []int32
		if err := rows.Scan(&imp.RunID, &imp.Generation, &imp.Fitness, &assignment, &imp.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan improvement: %w", err)
		}
		imp.Assignment = fromInt32s(assignment)
		improvements = append(improvements, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating improvements: %w", err)
	}

	return improvements, nil
}

func scanRun(row pgx.Row) (*db.Run, error) {
	var r db.Run
	var seed int64
	var finishedAt *time.Time
	err := row.Scan(&r.ID, &r.InstanceName, &r.Persons, &r.Groups, &r.MaxFitness, &r.PopulationSize, &seed,
		&r.StartedAt, &finishedAt, &r.BestFitness, &r.Generations, &r.StopReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	r.Seed = uint64(seed)
	r.StartedAt = r.StartedAt.UTC()
	if finishedAt != nil {
		utc := finishedAt.UTC()
		r.FinishedAt = &utc
	}
	return &r, nil
}

func toInt32s(values []int) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(v)
	}
	return out
}

func fromInt32s(values []int32) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
