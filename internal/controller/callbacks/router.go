package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/common"
)

// ========================
// Callback Data Patterns
// ========================

const (
	// Noop marks inert buttons: headers, time labels, read-only cells.
	Noop = "noop"

	SelectPeriod = "period:"  // period:12                     - open own grid for a period
	ViewPeriod   = "vperiod:" // vperiod:554433:12              - open a professor's grid read-only
	GridNav      = "grid:"    // grid:554433:12:morning         - switch the shown shift
	ToggleCell   = "cell:"    // cell:12:morning:3:480          - activate one (weekday, slot) cell
	GridImage    = "gridimg:" // gridimg:554433:12              - render the grid as an image

	ConfigSave   = "config_save"
	ConfigCancel = "config_cancel"
)

// Route dispatches a callback query to its handler.
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	case strings.HasPrefix(data, SelectPeriod):
		HandlePeriodSelect(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewPeriod):
		HandleViewPeriodSelect(ctx, b, callback, h)
	case strings.HasPrefix(data, GridNav):
		HandleGridNav(ctx, b, callback, h)
	case strings.HasPrefix(data, ToggleCell):
		HandleToggleCell(ctx, b, callback, h)
	case strings.HasPrefix(data, GridImage):
		HandleGridImage(ctx, b, callback, h)

	case data == ConfigSave:
		HandleConfigSave(ctx, b, callback, h)
	case data == ConfigCancel:
		HandleConfigCancel(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "Unknown action")
	}
}
