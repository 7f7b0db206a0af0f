package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/group-allocation/pkg/db"
)

const runColumns = `id, instance_name, person_count, group_count, max_fitness, population_size, seed,
	started_at, finished_at, best_fitness, generations, stop_reason`

// InsertRun inserts a new run record
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO run (id, instance_name, person_count, group_count, max_fitness, population_size, seed, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.InstanceName, run.Persons, run.Groups, run.MaxFitness, run.PopulationSize,
		int64(run.Seed), formatTime(run.StartedAt))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// InsertImprovement inserts an improvement for an existing run
func (d *DB) InsertImprovement(ctx context.Context, improvement *db.Improvement) error {
	assignment, err := json.Marshal(improvement.Assignment)
	if err != nil {
		return fmt.Errorf("failed to encode assignment: %w", err)
	}

	recordedAt := improvement.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO improvement (run_id, generation, fitness, assignment, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, improvement.RunID, improvement.Generation, improvement.Fitness, string(assignment), formatTime(recordedAt))
	if err != nil {
		return fmt.Errorf("failed to insert improvement: %w", err)
	}
	return nil
}

// FinishRun records the outcome of a run
func (d *DB) FinishRun(ctx context.Context, runID string, result db.RunResult) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE run
		SET finished_at = ?, best_fitness = ?, generations = ?, stop_reason = ?
		WHERE id = ?
	`, formatTime(result.FinishedAt), result.BestFitness, result.Generations, result.StopReason, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to finish run: %w: %s", db.ErrRunNotFound, runID)
	}
	return nil
}

// GetRuns retrieves all runs, oldest first
func (d *DB) GetRuns(ctx context.Context) ([]db.Run, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+runColumns+` FROM run ORDER BY started_at, id`)
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
	row := d.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM run WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrRunNotFound
	}
	return run, err
}

// GetImprovements retrieves the improvements of a run in generation order
func (d *DB) GetImprovements(ctx context.Context, runID string) ([]db.Improvement, error) {
	if _, err := d.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT run_id, generation, fitness, assignment, recorded_at
		FROM improvement
		WHERE run_id = ?
		ORDER BY generation
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query improvements: %w", err)
	}
	defer rows.Close()

	var improvements []db.Improvement
	for rows.Next() {
		var imp db.Improvement
		var assignment, recordedAt string
		if err := rows.Scan(&imp.RunID, &imp.Generation, &imp.Fitness, &assignment, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan improvement: %w", err)
		}
		if err := json.Unmarshal([]byte(assignment), &imp.Assignment); err != nil {
			return nil, fmt.Errorf("failed to decode assignment for generation %d: %w", imp.Generation, err)
		}
		if imp.RecordedAt, err = parseTime(recordedAt); err != nil {
			return nil, err
		}
		improvements = append(improvements, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating improvements: %w", err)
	}

	return improvements, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*db.Run, error) {
	var r db.Run
	var seed int64
	var startedAt string
	var finishedAt sql.NullString
	err := row.Scan(&r.ID, &r.InstanceName, &r.Persons, &r.Groups, &r.MaxFitness, &r.PopulationSize, &seed,
		&startedAt, &finishedAt, &r.BestFitness, &r.Generations, &r.StopReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	r.Seed = uint64(seed)
	if r.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		r.FinishedAt = &t
	}
	return &r, nil
}

// timeLayout keeps every fraction digit so stored UTC timestamps have a fixed
// width and compare in time order as text. RFC3339Nano trims trailing zeros.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}
