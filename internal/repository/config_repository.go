package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/repository/base"
)

// ConfigRepository persists the schedule configuration singleton. The table
// holds at most one row; writes are upserts on a fixed key.
type ConfigRepository struct {
	*base.Repository
}

func NewConfigRepository(pool *pgxpool.Pool) *ConfigRepository {
	return &ConfigRepository{base.NewRepository(pool)}
}

// Get returns the configuration, or model.ErrNotConfigured when it has never
// been defined.
func (r *ConfigRepository) Get(ctx context.Context) (*model.ScheduleConfig, error) {
	query := `
		SELECT lesson_duration_minutes, lessons_per_shift,
		       morning_start, afternoon_start, evening_start, updated_at
		FROM schedule_config
		WHERE id = 1
	`

	var cfg model.ScheduleConfig
	var morning, afternoon, evening int
	err := r.QueryRow(ctx, query).Scan(
		&cfg.LessonDurationMinutes,
		&cfg.LessonsPerShift,
		&morning,
		&afternoon,
		&evening,
		&cfg.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, model.ErrNotConfigured
		}
		return nil, fmt.Errorf("get schedule config: %w", err)
	}

	cfg.MorningStart = model.MinuteOfDay(morning)
	cfg.AfternoonStart = model.MinuteOfDay(afternoon)
	cfg.EveningStart = model.MinuteOfDay(evening)

	return &cfg, nil
}

// Upsert overwrites the singleton in place.
func (r *ConfigRepository) Upsert(ctx context.Context, cfg *model.ScheduleConfig) error {
	query := `
		INSERT INTO schedule_config (id, lesson_duration_minutes, lessons_per_shift,
		                             morning_start, afternoon_start, evening_start, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			lesson_duration_minutes = EXCLUDED.lesson_duration_minutes,
			lessons_per_shift       = EXCLUDED.lessons_per_shift,
			morning_start           = EXCLUDED.morning_start,
			afternoon_start         = EXCLUDED.afternoon_start,
			evening_start           = EXCLUDED.evening_start,
			updated_at              = now()
		RETURNING updated_at
	`

	err := r.QueryRow(
		ctx, query,
		cfg.LessonDurationMinutes,
		cfg.LessonsPerShift,
		int(cfg.MorningStart),
		int(cfg.AfternoonStart),
		int(cfg.EveningStart),
	).Scan(&cfg.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert schedule config: %w", err)
	}

	return nil
}
