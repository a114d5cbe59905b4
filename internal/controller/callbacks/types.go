package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/service"
)

// Handler bundles the dependencies shared by every callback handler.
type Handler struct {
	Users        *service.UserService
	Periods      *service.PeriodService
	Config       *service.ConfigService
	Availability *service.AvailabilityService
	StateManager *state.Manager
	Logger       *zap.Logger
}

func NewHandler(
	users *service.UserService,
	periods *service.PeriodService,
	config *service.ConfigService,
	availability *service.AvailabilityService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:        users,
		Periods:      periods,
		Config:       config,
		Availability: availability,
		StateManager: stateManager,
		Logger:       logger,
	}
}

// HandleCallbackQuery is the single entry point registered with the bot for
// inline button presses.
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, b, update.CallbackQuery, h)
}
