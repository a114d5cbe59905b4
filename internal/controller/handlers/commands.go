package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/callbacks"
	"github.com/tvcampos/availability_bot/internal/controller/common/keyboard"
	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/model"
)

const periodDateLayout = "2006-01-02"

// HandleStart registers the sender and explains what the bot does.
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	from := update.Message.From
	user, err := h.Users.Register(ctx, from.ID, from.Username, from.FirstName, from.LastName, from.LanguageCode)
	if err != nil {
		h.Logger.Error("Failed to register user", zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		return
	}

	text := fmt.Sprintf("Hello, %s! 👋\n\n"+
		"I track professor availability for lesson scheduling.\n\n"+
		"/grid - fill in your availability grid\n"+
		"/help - full command list", from.FirstName)
	if user.CanViewOthers() {
		text += "\n/view <professor id> - view a professor's grid"
	}
	if user.IsAdmin() {
		text += "\n/config - define the schedule configuration" +
			"\n/addperiod - create an academic period"
	}
	h.send(ctx, b, update.Message.Chat.ID, text, nil)
}

func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text := "Commands:\n\n" +
		"/grid - fill in your availability grid for a period\n" +
		"/cancel - abort the current dialog\n" +
		"/help - this message\n\n" +
		"On the grid, tap a cell to cycle it:\n" +
		"▫️ free   ✅ available   🚫 unavailable"
	if user.CanViewOthers() {
		text += "\n\nCoordinator commands:\n/view <professor id> - view a professor's grid read-only"
	}
	if user.IsAdmin() {
		text += "\n\nAdministrator commands:\n" +
			"/config - define lesson duration, lessons per shift and shift starts\n" +
			"/addperiod <name> <start> <end> - create a period, dates as YYYY-MM-DD\n" +
			"/role <telegram id> <professor|coordinator|admin> - change a user's role"
	}
	h.send(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleCancel aborts whatever dialog the user is in.
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.StateManager.ClearState(update.Message.From.ID)
	h.send(ctx, b, update.Message.Chat.ID, "Cancelled.", nil)
}

// HandleGrid lists the current periods and lets the sender pick one to fill.
func (h *Handlers) HandleGrid(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}

	periods, err := h.Periods.ListCurrent(ctx)
	if err != nil {
		h.Logger.Error("Failed to list periods", zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		return
	}
	if len(periods) == 0 {
		h.send(ctx, b, update.Message.Chat.ID, "There are no current academic periods yet.", nil)
		return
	}

	kb := keyboard.NewBuilder()
	for _, period := range periods {
		label := fmt.Sprintf("%s (until %s)", period.Name, period.EndsAt.Format(periodDateLayout))
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", callbacks.SelectPeriod, period.ID)))
	}
	h.send(ctx, b, update.Message.Chat.ID, "📅 Pick an academic period:", kb.Build())
}

// HandleView opens another professor's grid read-only. Coordinators and
// administrators only.
func (h *Handlers) HandleView(ctx context.Context, b *bot.Bot, update *models.Update) {
	viewer, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	if !viewer.CanViewOthers() {
		h.send(ctx, b, update.Message.Chat.ID, "Only coordinators can view other professors.", nil)
		return
	}

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 2 {
		h.send(ctx, b, update.Message.Chat.ID, "Usage: /view <professor telegram id>", nil)
		return
	}
	profID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		h.send(ctx, b, update.Message.Chat.ID, "Usage: /view <professor telegram id>", nil)
		return
	}

	prof, err := h.Users.Get(ctx, profID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.send(ctx, b, update.Message.Chat.ID, "I don't know that professor.", nil)
		} else {
			h.Logger.Error("Failed to load professor", zap.Error(err))
			h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		}
		return
	}

	periods, err := h.Periods.ListCurrent(ctx)
	if err != nil {
		h.Logger.Error("Failed to list periods", zap.Error(err))
		h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		return
	}
	if len(periods) == 0 {
		h.send(ctx, b, update.Message.Chat.ID, "There are no current academic periods yet.", nil)
		return
	}

	kb := keyboard.NewBuilder()
	for _, period := range periods {
		kb.Row(keyboard.Button(period.Name, fmt.Sprintf("%s%d:%d", callbacks.ViewPeriod, prof.ID, period.ID)))
	}
	h.send(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("👀 Viewing %s. Pick a period:", prof.FirstName), kb.Build())
}

// HandleConfig starts the schedule configuration dialog. Administrators only.
func (h *Handlers) HandleConfig(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	if !user.IsAdmin() {
		h.send(ctx, b, update.Message.Chat.ID, "Only administrators can change the schedule configuration.", nil)
		return
	}

	text := "⚙️ Schedule configuration."
	if cfg, err := h.Config.Get(ctx); err == nil {
		text += fmt.Sprintf("\n\nCurrent: %d min lessons, %d per shift, shifts at %s / %s / %s.",
			cfg.LessonDurationMinutes, cfg.LessonsPerShift,
			cfg.MorningStart, cfg.AfternoonStart, cfg.EveningStart)
	}
	text += fmt.Sprintf("\n\nSend the lesson duration in minutes (1-%d). /cancel to abort.",
		model.MaxLessonDurationMinutes)

	h.StateManager.ClearState(user.ID)
	h.StateManager.SetState(user.ID, state.StateConfigDuration)
	h.send(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleAddPeriod creates an academic period. Administrators only.
func (h *Handlers) HandleAddPeriod(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	usage := "Usage: /addperiod <name> <start> <end>, dates as YYYY-MM-DD.\nExample: /addperiod 2026.2 2026-08-03 2026-12-18"

	fields := strings.Fields(update.Message.Text)
	if len(fields) < 4 {
		h.send(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}

	name := strings.Join(fields[1:len(fields)-2], " ")
	startsAt, err1 := time.Parse(periodDateLayout, fields[len(fields)-2])
	endsAt, err2 := time.Parse(periodDateLayout, fields[len(fields)-1])
	if err1 != nil || err2 != nil {
		h.send(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}
	// A period ends at the end of its last day.
	endsAt = endsAt.Add(24*time.Hour - time.Second)

	period, err := h.Periods.Create(ctx, user, name, startsAt, endsAt)
	if err != nil {
		if errors.Is(err, model.ErrForbidden) {
			h.send(ctx, b, update.Message.Chat.ID, "Only administrators can create periods.", nil)
		} else {
			h.send(ctx, b, update.Message.Chat.ID, "Could not create the period: "+err.Error(), nil)
		}
		return
	}

	h.send(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Period %q created, %s to %s.",
			period.Name, period.StartsAt.Format(periodDateLayout), period.EndsAt.Format(periodDateLayout)), nil)
}

// HandleRole changes a user's role. Administrators only.
func (h *Handlers) HandleRole(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	usage := "Usage: /role <telegram id> <professor|coordinator|admin>"

	fields := strings.Fields(update.Message.Text)
	if len(fields) != 3 {
		h.send(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}
	targetID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		h.send(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}
	role, ok := model.ParseRole(fields[2])
	if !ok {
		h.send(ctx, b, update.Message.Chat.ID, usage, nil)
		return
	}

	if err := h.Users.SetRole(ctx, user, targetID, role); err != nil {
		switch {
		case errors.Is(err, model.ErrForbidden):
			h.send(ctx, b, update.Message.Chat.ID, "Only administrators can change roles.", nil)
		case errors.Is(err, model.ErrNotFound):
			h.send(ctx, b, update.Message.Chat.ID, "I don't know that user. They need to /start first.", nil)
		default:
			h.Logger.Error("Failed to set role", zap.Error(err))
			h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		}
		return
	}

	h.send(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ User %d is now a %s.", targetID, role), nil)
}

// requireUser resolves the message sender to a registered user.
func (h *Handlers) requireUser(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user, err := h.Users.Get(ctx, update.Message.From.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.send(ctx, b, update.Message.Chat.ID, "Please run /start first.", nil)
		} else {
			h.Logger.Error("Failed to load user", zap.Error(err))
			h.send(ctx, b, update.Message.Chat.ID, "Something went wrong, try again.", nil)
		}
		return nil, false
	}
	return user, true
}

func (h *Handlers) send(ctx context.Context, b *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		h.Logger.Error("Failed to send message", zap.Error(err))
	}
}
