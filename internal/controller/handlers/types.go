package handlers

import (
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/service"
)

// Handlers bundles the dependencies shared by every command and dialog
// handler.
type Handlers struct {
	Users        *service.UserService
	Periods      *service.PeriodService
	Config       *service.ConfigService
	Availability *service.AvailabilityService
	StateManager *state.Manager
	Logger       *zap.Logger
}

func NewHandlers(
	users *service.UserService,
	periods *service.PeriodService,
	config *service.ConfigService,
	availability *service.AvailabilityService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		Users:        users,
		Periods:      periods,
		Config:       config,
		Availability: availability,
		StateManager: stateManager,
		Logger:       logger,
	}
}
