package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
)

// PeriodStore is the persistence contract the period service needs.
type PeriodStore interface {
	Create(ctx context.Context, period *model.Period) error
	GetByID(ctx context.Context, id int64) (*model.Period, error)
	ListCurrent(ctx context.Context, ref time.Time) ([]*model.Period, error)
}

type PeriodService struct {
	store  PeriodStore
	logger *zap.Logger
}

func NewPeriodService(store PeriodStore, logger *zap.Logger) *PeriodService {
	return &PeriodService{store: store, logger: logger}
}

// Create registers a new academic period. Admin only.
func (s *PeriodService) Create(ctx context.Context, actor *model.User, name string, startsAt, endsAt time.Time) (*model.Period, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, model.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("period name is required")
	}
	if !endsAt.After(startsAt) {
		return nil, fmt.Errorf("period must end after it starts")
	}

	period := &model.Period{Name: name, StartsAt: startsAt, EndsAt: endsAt}
	if err := s.store.Create(ctx, period); err != nil {
		return nil, err
	}

	s.logger.Info("Period created",
		zap.Int64("period_id", period.ID),
		zap.String("name", period.Name))

	return period, nil
}

// Get returns one period, or model.ErrNotFound.
func (s *PeriodService) Get(ctx context.Context, id int64) (*model.Period, error) {
	return s.store.GetByID(ctx, id)
}

// ListCurrent returns the periods that have not yet ended.
func (s *PeriodService) ListCurrent(ctx context.Context) ([]*model.Period, error) {
	return s.store.ListCurrent(ctx, time.Now())
}
