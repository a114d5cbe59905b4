package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// IntervalSweeperStore deletes availability intervals whose academic period
// has already ended.
type IntervalSweeperStore interface {
	DeleteForEndedPeriods(ctx context.Context, ref time.Time) (int64, error)
}

// Sweeper runs the periodic cleanup of stale availability intervals.
type Sweeper struct {
	store    IntervalSweeperStore
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewSweeper(store IntervalSweeperStore, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting background sweeper")
	go s.run(ctx)
}

// Stop stops the background loop.
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping background sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First pass right away, then daily.
	s.sweep(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Interval sweep stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Interval sweep cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	removed, err := s.store.DeleteForEndedPeriods(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to sweep ended periods", zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Info("Swept intervals of ended periods", zap.Int64("removed", removed))
	}
}
