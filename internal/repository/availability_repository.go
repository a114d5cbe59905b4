package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/repository/base"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{base.NewRepository(pool)}
}

// List returns every interval declared by a professor for a period. Order is
// by creation time so the reconciler's first-match tie-break is stable.
func (r *AvailabilityRepository) List(ctx context.Context, professorID, periodID int64) ([]*model.AvailabilityInterval, error) {
	query := `
		SELECT id, professor_id, period_id, weekday, start_minute, end_minute, status, created_at
		FROM availability_intervals
		WHERE professor_id = $1 AND period_id = $2
		ORDER BY created_at, id
	`

	rows, err := r.Query(ctx, query, professorID, periodID)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	defer rows.Close()

	var intervals []*model.AvailabilityInterval
	for rows.Next() {
		var iv model.AvailabilityInterval
		var weekday, start, end int
		err := rows.Scan(
			&iv.ID,
			&iv.ProfessorID,
			&iv.PeriodID,
			&weekday,
			&start,
			&end,
			&iv.Status,
			&iv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		iv.Weekday = model.Weekday(weekday)
		iv.Start = model.MinuteOfDay(start)
		iv.End = model.MinuteOfDay(end)
		intervals = append(intervals, &iv)
	}

	return intervals, rows.Err()
}

// Create inserts a new interval.
func (r *AvailabilityRepository) Create(ctx context.Context, iv *model.AvailabilityInterval) error {
	query := `
		INSERT INTO availability_intervals (id, professor_id, period_id, weekday, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		iv.ID,
		iv.ProfessorID,
		iv.PeriodID,
		int(iv.Weekday),
		int(iv.Start),
		int(iv.End),
		iv.Status,
	).Scan(&iv.CreatedAt)

	if err != nil {
		return fmt.Errorf("create interval: %w", err)
	}

	return nil
}

// UpdateStatus flips the status of an existing interval in place.
func (r *AvailabilityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) error {
	query := `UPDATE availability_intervals SET status = $2 WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update interval status: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Delete removes an interval.
func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM availability_intervals WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete interval: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

// DeleteForEndedPeriods removes every interval whose period ended before the
// reference instant. Used by the background sweep.
func (r *AvailabilityRepository) DeleteForEndedPeriods(ctx context.Context, ref time.Time) (int64, error) {
	query := `
		DELETE FROM availability_intervals ai
		USING periods p
		WHERE p.id = ai.period_id AND p.ends_at < $1
	`

	affected, err := r.ExecAffected(ctx, query, ref)
	if err != nil {
		return 0, fmt.Errorf("delete intervals for ended periods: %w", err)
	}

	return affected, nil
}
