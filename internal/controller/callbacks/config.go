package callbacks

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/common"
	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/timetable"
)

// Dialog data keys used by the configuration dialog.
const (
	DataConfigDuration  = "config_duration"
	DataConfigLessons   = "config_lessons"
	DataConfigMorning   = "config_morning"
	DataConfigAfternoon = "config_afternoon"
	DataConfigEvening   = "config_evening"
)

// HandleConfigSave persists the configuration collected by the dialog.
func HandleConfigSave(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}
	if h.StateManager.GetState(viewer.ID) != state.StateConfigConfirm {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "This dialog has expired, run /config again.")
		return
	}

	in, ok := ConfigInputFromState(h.StateManager, viewer.ID)
	if !ok {
		h.StateManager.ClearState(viewer.ID)
		common.AnswerCallbackAlert(ctx, b, callback.ID, "This dialog has expired, run /config again.")
		return
	}

	cfg, err := h.Config.Upsert(ctx, viewer, in)
	if err != nil {
		var verrs model.ValidationErrors
		switch {
		case errors.Is(err, model.ErrForbidden):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Only administrators can change the schedule.")
		case errors.As(err, &verrs):
			// The dialog pre-validates, so this only fires when the input
			// was edited concurrently.
			common.AnswerCallbackAlert(ctx, b, callback.ID, "The configuration is no longer valid, run /config again.")
		default:
			h.Logger.Error("Failed to save configuration", zap.Error(err))
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Could not save the configuration, try again.")
			return
		}
		h.StateManager.ClearState(viewer.ID)
		return
	}

	h.StateManager.ClearState(viewer.ID)
	common.AnswerCallback(ctx, b, callback.ID, "Configuration saved")

	message := common.MessageFromCallback(callback)
	if message == nil {
		return
	}
	text := fmt.Sprintf("✅ Schedule configuration saved.\n\n"+
		"Lesson: %d min, %d lessons per shift\n"+
		"Morning: %s-%s\nAfternoon: %s-%s\nEvening: %s-%s",
		cfg.LessonDurationMinutes, cfg.LessonsPerShift,
		cfg.ShiftStart(model.ShiftMorning), cfg.ShiftEnd(model.ShiftMorning),
		cfg.ShiftStart(model.ShiftAfternoon), cfg.ShiftEnd(model.ShiftAfternoon),
		cfg.ShiftStart(model.ShiftEvening), cfg.ShiftEnd(model.ShiftEvening))
	_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    message.Chat.ID,
		MessageID: message.ID,
		Text:      text,
	})
	if err != nil && !common.IsMessageNotModifiedError(err) {
		h.Logger.Error("Failed to confirm configuration", zap.Error(err))
	}
}

// HandleConfigCancel discards the configuration dialog.
func HandleConfigCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	h.StateManager.ClearState(callback.From.ID)
	common.AnswerCallback(ctx, b, callback.ID, "Configuration discarded")

	message := common.MessageFromCallback(callback)
	if message == nil {
		return
	}
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    message.Chat.ID,
		MessageID: message.ID,
		Text:      "Configuration discarded. Run /config to start over.",
	})
	if err != nil && !common.IsMessageNotModifiedError(err) {
		h.Logger.Error("Failed to close configuration dialog", zap.Error(err))
	}
}

// ConfigInputFromState rebuilds the validator input from the dialog's
// collected values. Shared with the dialog's own confirm step.
func ConfigInputFromState(sm *state.Manager, telegramID int64) (timetable.ConfigInput, bool) {
	duration, ok1 := sm.GetData(telegramID, DataConfigDuration)
	lessons, ok2 := sm.GetData(telegramID, DataConfigLessons)
	morning, ok3 := sm.GetData(telegramID, DataConfigMorning)
	afternoon, ok4 := sm.GetData(telegramID, DataConfigAfternoon)
	evening, ok5 := sm.GetData(telegramID, DataConfigEvening)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return timetable.ConfigInput{}, false
	}

	durationInt, ok1 := duration.(int)
	lessonsInt, ok2 := lessons.(int)
	morningStr, ok3 := morning.(string)
	afternoonStr, ok4 := afternoon.(string)
	eveningStr, ok5 := evening.(string)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return timetable.ConfigInput{}, false
	}

	return timetable.ConfigInput{
		LessonDurationMinutes: durationInt,
		LessonsPerShift:       lessonsInt,
		MorningStart:          morningStr,
		AfternoonStart:        afternoonStr,
		EveningStart:          eveningStr,
	}, true
}
