package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/tvcampos/availability_bot/internal/controller/callbacks"
	"github.com/tvcampos/availability_bot/internal/controller/common/keyboard"
	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/timetable"
)

// HandleTextMessage routes free-form text into the active dialog step.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	userID := update.Message.From.ID

	switch h.StateManager.GetState(userID) {
	case state.StateConfigDuration:
		h.handleConfigDurationStep(ctx, b, update)
	case state.StateConfigLessons:
		h.handleConfigLessonsStep(ctx, b, update)
	case state.StateConfigMorning:
		h.handleConfigStartStep(ctx, b, update, callbacks.DataConfigMorning,
			state.StateConfigAfternoon, "Now send the afternoon shift start, e.g. 13:00.")
	case state.StateConfigAfternoon:
		h.handleConfigStartStep(ctx, b, update, callbacks.DataConfigAfternoon,
			state.StateConfigEvening, "Now send the evening shift start, e.g. 18:30.")
	case state.StateConfigEvening:
		h.handleConfigEveningStep(ctx, b, update)
	case state.StateConfigConfirm:
		h.send(ctx, b, update.Message.Chat.ID, "Use the Save and Discard buttons above, or /cancel.", nil)
	default:
		h.send(ctx, b, update.Message.Chat.ID, "I don't understand. Try /help.", nil)
	}
}

func (h *Handlers) handleConfigDurationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	duration, err := strconv.Atoi(strings.TrimSpace(update.Message.Text))
	if err != nil {
		h.send(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("Send the lesson duration as a number of minutes (1-%d).", model.MaxLessonDurationMinutes), nil)
		return
	}

	h.StateManager.SetData(userID, callbacks.DataConfigDuration, duration)
	h.StateManager.SetState(userID, state.StateConfigLessons)
	h.send(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Now send the number of lessons per shift (1-%d).", model.MaxLessonsPerShift), nil)
}

func (h *Handlers) handleConfigLessonsStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	lessons, err := strconv.Atoi(strings.TrimSpace(update.Message.Text))
	if err != nil {
		h.send(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("Send the lessons per shift as a number (1-%d).", model.MaxLessonsPerShift), nil)
		return
	}

	h.StateManager.SetData(userID, callbacks.DataConfigLessons, lessons)
	h.StateManager.SetState(userID, state.StateConfigMorning)
	h.send(ctx, b, update.Message.Chat.ID, "Now send the morning shift start, e.g. 07:30.", nil)
}

// handleConfigStartStep stores a shift start as raw text; format problems are
// reported together with everything else at the end of the dialog.
func (h *Handlers) handleConfigStartStep(ctx context.Context, b *bot.Bot, update *models.Update, dataKey string, next state.UserState, prompt string) {
	userID := update.Message.From.ID

	h.StateManager.SetData(userID, dataKey, strings.TrimSpace(update.Message.Text))
	h.StateManager.SetState(userID, next)
	h.send(ctx, b, update.Message.Chat.ID, prompt, nil)
}

// handleConfigEveningStep closes the dialog: validates the whole form at once
// and either lists every problem or shows the preview with a save button.
func (h *Handlers) handleConfigEveningStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	userID := update.Message.From.ID

	h.StateManager.SetData(userID, callbacks.DataConfigEvening, strings.TrimSpace(update.Message.Text))

	in, ok := callbacks.ConfigInputFromState(h.StateManager, userID)
	if !ok {
		h.StateManager.ClearState(userID)
		h.send(ctx, b, update.Message.Chat.ID, "This dialog has expired, run /config again.", nil)
		return
	}

	cfg, verrs := timetable.ValidateConfig(in)
	if len(verrs) > 0 {
		lines := make([]string, 0, len(verrs)+2)
		lines = append(lines, "❌ The configuration has problems:")
		for _, fe := range verrs {
			lines = append(lines, "• "+fe.Message)
		}
		lines = append(lines, "", "Let's start over. Send the lesson duration in minutes.")
		h.StateManager.SetState(userID, state.StateConfigDuration)
		h.send(ctx, b, update.Message.Chat.ID, strings.Join(lines, "\n"), nil)
		return
	}

	preview := fmt.Sprintf("⚙️ New schedule configuration:\n\n"+
		"Lesson: %d min, %d lessons per shift\n"+
		"Morning: %s-%s\nAfternoon: %s-%s\nEvening: %s-%s",
		cfg.LessonDurationMinutes, cfg.LessonsPerShift,
		cfg.ShiftStart(model.ShiftMorning), cfg.ShiftEnd(model.ShiftMorning),
		cfg.ShiftStart(model.ShiftAfternoon), cfg.ShiftEnd(model.ShiftAfternoon),
		cfg.ShiftStart(model.ShiftEvening), cfg.ShiftEnd(model.ShiftEvening))

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("💾 Save", callbacks.ConfigSave),
			keyboard.Button("✖️ Discard", callbacks.ConfigCancel),
		)

	h.StateManager.SetState(userID, state.StateConfigConfirm)
	h.send(ctx, b, update.Message.Chat.ID, preview, kb.Build())
}
