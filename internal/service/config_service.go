package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/timetable"
)

// ConfigStore is the persistence contract for the configuration singleton.
// Get returns model.ErrNotConfigured when no configuration exists and may
// return model.ErrForbidden when the caller is not allowed to read it.
type ConfigStore interface {
	Get(ctx context.Context) (*model.ScheduleConfig, error)
	Upsert(ctx context.Context, cfg *model.ScheduleConfig) error
}

type ConfigService struct {
	store  ConfigStore
	logger *zap.Logger
}

func NewConfigService(store ConfigStore, logger *zap.Logger) *ConfigService {
	return &ConfigService{store: store, logger: logger}
}

// Get returns the current configuration. Both absence and a store-side
// permission denial come back as model.ErrNotConfigured, so callers render
// the unconfigured guidance state instead of an error banner.
func (s *ConfigService) Get(ctx context.Context) (*model.ScheduleConfig, error) {
	cfg, err := s.store.Get(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotConfigured) || errors.Is(err, model.ErrForbidden) {
			return nil, model.ErrNotConfigured
		}
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return cfg, nil
}

// Upsert validates the raw form values and overwrites the configuration
// singleton. Validation problems come back as model.ValidationErrors and
// block persistence; they are never fatal.
func (s *ConfigService) Upsert(ctx context.Context, actor *model.User, in timetable.ConfigInput) (*model.ScheduleConfig, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}

	cfg, verrs := timetable.ValidateConfig(in)
	if verrs != nil {
		s.logger.Info("Configuration rejected",
			zap.Int64("actor_id", actor.ID),
			zap.Int("errors", len(verrs)))
		return nil, verrs
	}

	if err := s.store.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save configuration: %w", err)
	}

	s.logger.Info("Schedule configuration updated",
		zap.Int64("actor_id", actor.ID),
		zap.Int("lesson_duration_minutes", cfg.LessonDurationMinutes),
		zap.Int("lessons_per_shift", cfg.LessonsPerShift),
		zap.Stringer("morning_start", cfg.MorningStart),
		zap.Stringer("afternoon_start", cfg.AfternoonStart),
		zap.Stringer("evening_start", cfg.EveningStart))

	return cfg, nil
}
