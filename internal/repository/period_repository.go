package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/repository/base"
)

type PeriodRepository struct {
	*base.Repository
}

func NewPeriodRepository(pool *pgxpool.Pool) *PeriodRepository {
	return &PeriodRepository{base.NewRepository(pool)}
}

// Create inserts a new academic period.
func (r *PeriodRepository) Create(ctx context.Context, period *model.Period) error {
	query := `
		INSERT INTO periods (name, starts_at, ends_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, period.Name, period.StartsAt, period.EndsAt).
		Scan(&period.ID, &period.CreatedAt)

	if err != nil {
		return fmt.Errorf("create period: %w", err)
	}

	return nil
}

// GetByID returns a period, or model.ErrNotFound.
func (r *PeriodRepository) GetByID(ctx context.Context, id int64) (*model.Period, error) {
	query := `
		SELECT id, name, starts_at, ends_at, created_at
		FROM periods
		WHERE id = $1
	`

	var period model.Period
	err := r.QueryRow(ctx, query, id).Scan(
		&period.ID,
		&period.Name,
		&period.StartsAt,
		&period.EndsAt,
		&period.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("get period by id: %w", err)
	}

	return &period, nil
}

// ListCurrent returns the periods still running at the reference instant,
// soonest-ending first.
func (r *PeriodRepository) ListCurrent(ctx context.Context, ref time.Time) ([]*model.Period, error) {
	query := `
		SELECT id, name, starts_at, ends_at, created_at
		FROM periods
		WHERE ends_at >= $1
		ORDER BY ends_at, id
	`

	rows, err := r.Query(ctx, query, ref)
	if err != nil {
		return nil, fmt.Errorf("list current periods: %w", err)
	}
	defer rows.Close()

	var periods []*model.Period
	for rows.Next() {
		var period model.Period
		err := rows.Scan(
			&period.ID,
			&period.Name,
			&period.StartsAt,
			&period.EndsAt,
			&period.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, &period)
	}

	return periods, rows.Err()
}
