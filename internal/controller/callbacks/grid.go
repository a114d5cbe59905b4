package callbacks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/common"
	"github.com/tvcampos/availability_bot/internal/controller/common/keyboard"
	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/service"
)

// cellGlyph maps reconciled cell states to button labels.
func cellGlyph(state model.CellState) string {
	switch state {
	case model.CellAvailable:
		return "✅"
	case model.CellUnavailable:
		return "🚫"
	case model.CellPending:
		return "⏳"
	default:
		return "▫️"
	}
}

// HandlePeriodSelect opens the caller's own grid for the chosen period.
func HandlePeriodSelect(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}

	periodID, err := strconv.ParseInt(strings.TrimPrefix(callback.Data, SelectPeriod), 10, 64)
	if err != nil {
		common.AnswerCallback(ctx, b, callback.ID, "Bad period reference")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	renderGrid(ctx, b, h, callback, viewer, viewer.ID, periodID, model.ShiftMorning)
}

// HandleViewPeriodSelect opens another professor's grid read-only.
func HandleViewPeriodSelect(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}
	if !viewer.CanViewOthers() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Only coordinators can view other professors.")
		return
	}

	parts := strings.Split(strings.TrimPrefix(callback.Data, ViewPeriod), ":")
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "Bad view reference")
		return
	}
	profID, err1 := strconv.ParseInt(parts[0], 10, 64)
	periodID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		common.AnswerCallback(ctx, b, callback.ID, "Bad view reference")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	renderGrid(ctx, b, h, callback, viewer, profID, periodID, model.ShiftMorning)
}

// HandleGridNav switches the displayed shift.
func HandleGridNav(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}

	parts := strings.Split(strings.TrimPrefix(callback.Data, GridNav), ":")
	if len(parts) != 3 {
		common.AnswerCallback(ctx, b, callback.ID, "Bad grid reference")
		return
	}
	profID, err1 := strconv.ParseInt(parts[0], 10, 64)
	periodID, err2 := strconv.ParseInt(parts[1], 10, 64)
	shift, okShift := model.ParseShift(parts[2])
	if err1 != nil || err2 != nil || !okShift {
		common.AnswerCallback(ctx, b, callback.ID, "Bad grid reference")
		return
	}

	if profID != viewer.ID && !viewer.CanViewOthers() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Only coordinators can view other professors.")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	renderGrid(ctx, b, h, callback, viewer, profID, periodID, shift)
}

// HandleToggleCell drives one activation of a (weekday, slot) cell on the
// caller's own grid.
func HandleToggleCell(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}

	parts := strings.Split(strings.TrimPrefix(callback.Data, ToggleCell), ":")
	if len(parts) != 4 {
		common.AnswerCallback(ctx, b, callback.ID, "Bad cell reference")
		return
	}
	periodID, err1 := strconv.ParseInt(parts[0], 10, 64)
	shift, okShift := model.ParseShift(parts[1])
	weekdayNum, err2 := strconv.Atoi(parts[2])
	startNum, err3 := strconv.Atoi(parts[3])
	weekday, okDay := model.ParseWeekday(weekdayNum)
	if err1 != nil || err2 != nil || err3 != nil || !okShift || !okDay {
		common.AnswerCallback(ctx, b, callback.ID, "Bad cell reference")
		return
	}
	start := model.MinuteOfDay(startNum)

	result, err := h.Availability.Toggle(ctx, viewer, viewer.ID, periodID, shift, weekday, start)
	if err != nil {
		var merr *model.MutationError
		switch {
		case errors.Is(err, model.ErrReadOnly):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "This grid is view-only.")
		case errors.Is(err, model.ErrStaleSlot):
			// The configuration changed underneath the rendered grid.
			common.AnswerCallbackAlert(ctx, b, callback.ID, "The schedule changed, refreshing the grid.")
			renderGrid(ctx, b, h, callback, viewer, viewer.ID, periodID, shift)
		case errors.As(err, &merr):
			common.AnswerCallbackAlert(ctx, b, callback.ID,
				fmt.Sprintf("Could not %s availability for %s %s-%s. The cell kept its previous state.",
					merr.Op, merr.Weekday, merr.Start, merr.End))
			renderGrid(ctx, b, h, callback, viewer, viewer.ID, periodID, shift)
		default:
			h.Logger.Error("Toggle failed", zap.Error(err))
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Something went wrong, try again.")
		}
		return
	}

	switch result.Outcome {
	case service.ToggleDropped:
		common.AnswerCallback(ctx, b, callback.ID, "Still saving this cell, hold on.")
		return
	case service.ToggleCreated:
		common.AnswerCallback(ctx, b, callback.ID, "Marked available ✅")
	case service.ToggleUpdated:
		common.AnswerCallback(ctx, b, callback.ID, "Marked unavailable 🚫")
	case service.ToggleDeleted:
		common.AnswerCallback(ctx, b, callback.ID, "Cell cleared")
	}

	renderGrid(ctx, b, h, callback, viewer, viewer.ID, periodID, shift)
}

// HandleGridImage renders all shifts of the grid as a PNG.
func HandleGridImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) {
	viewer, ok := requireUser(ctx, b, callback, h)
	if !ok {
		return
	}

	parts := strings.Split(strings.TrimPrefix(callback.Data, GridImage), ":")
	if len(parts) != 2 {
		common.AnswerCallback(ctx, b, callback.ID, "Bad grid reference")
		return
	}
	profID, err1 := strconv.ParseInt(parts[0], 10, 64)
	periodID, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		common.AnswerCallback(ctx, b, callback.ID, "Bad grid reference")
		return
	}
	if profID != viewer.ID && !viewer.CanViewOthers() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "Only coordinators can view other professors.")
		return
	}

	grids := make([]*service.Grid, 0, len(model.Shifts()))
	for _, shift := range model.Shifts() {
		grid, err := h.Availability.Grid(ctx, profID, periodID, shift)
		if err != nil {
			h.Logger.Error("Failed to build grid for image", zap.Error(err))
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Could not build the grid image.")
			return
		}
		grids = append(grids, grid)
	}

	imageData, err := common.GenerateGridImage(gridTitle(ctx, h, profID, periodID), grids)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "The schedule is not configured yet.")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	message := common.MessageFromCallback(callback)
	if message == nil {
		return
	}
	b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: message.Chat.ID,
		Photo:  &models.InputFileUpload{Filename: "availability.png", Data: bytes.NewReader(imageData)},
	})
}

// requireUser resolves the callback sender to a registered user.
func requireUser(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *Handler) (*model.User, bool) {
	user, err := h.Users.Get(ctx, callback.From.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Please run /start first.")
		} else {
			h.Logger.Error("Failed to load user", zap.Error(err))
			common.AnswerCallbackAlert(ctx, b, callback.ID, "Something went wrong, try again.")
		}
		return nil, false
	}
	return user, true
}

// renderGrid draws the availability grid into the callback's message.
func renderGrid(ctx context.Context, b *bot.Bot, h *Handler, callback *models.CallbackQuery, viewer *model.User, profID, periodID int64, shift model.Shift) {
	message := common.MessageFromCallback(callback)
	if message == nil {
		return
	}

	grid, err := h.Availability.Grid(ctx, profID, periodID, shift)
	if err != nil {
		h.Logger.Error("Failed to build grid", zap.Error(err))
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    message.Chat.ID,
		MessageID: message.ID,
		Text:      gridText(ctx, h, grid, viewer, profID, periodID),
	}
	if grid.Configured {
		params.ReplyMarkup = gridKeyboard(grid, viewer.ID == profID, profID, periodID)
	}

	_, err = b.EditMessageText(ctx, params)
	if err != nil && !common.IsMessageNotModifiedError(err) {
		h.Logger.Error("Failed to render grid", zap.Error(err))
	}
}

func gridText(ctx context.Context, h *Handler, grid *service.Grid, viewer *model.User, profID, periodID int64) string {
	title := gridTitle(ctx, h, profID, periodID)

	if !grid.Configured {
		return title + "\n\n⚠️ The schedule is not configured yet.\n" +
			"An administrator can define it with /config."
	}

	start := grid.Slots[0].Start
	end := grid.Slots[len(grid.Slots)-1].End
	text := fmt.Sprintf("%s\n%s shift, %s-%s", title, grid.Shift.Label(), start, end)

	if viewer.ID == profID {
		text += "\n\nTap a cell to cycle it: free ▫️, available ✅, unavailable 🚫."
	} else {
		text += "\n\n👀 Read-only view."
	}
	return text
}

func gridTitle(ctx context.Context, h *Handler, profID, periodID int64) string {
	professorName := fmt.Sprintf("professor %d", profID)
	if prof, err := h.Users.Get(ctx, profID); err == nil {
		professorName = prof.FirstName
		if prof.LastName != "" {
			professorName += " " + prof.LastName
		}
	}

	periodName := fmt.Sprintf("period %d", periodID)
	if period, err := h.Periods.Get(ctx, periodID); err == nil {
		periodName = period.Name
	}

	return fmt.Sprintf("📅 Availability of %s, %s", professorName, periodName)
}

// gridKeyboard lays the grid out as one button per (weekday, slot) cell plus
// shift navigation. Read-only viewers get inert cells.
func gridKeyboard(grid *service.Grid, owned bool, profID, periodID int64) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	header := []models.InlineKeyboardButton{keyboard.Button("•", Noop)}
	for _, weekday := range model.Weekdays() {
		header = append(header, keyboard.Button(weekday.Short(), Noop))
	}
	kb.AddRow(header)

	for i, slot := range grid.Slots {
		row := []models.InlineKeyboardButton{keyboard.Button(slot.Start.String(), Noop)}
		for _, weekday := range model.Weekdays() {
			cell := grid.Cells[weekday][i]

			data := Noop
			if owned && cell.State != model.CellPending {
				data = fmt.Sprintf("%s%d:%s:%d:%d", ToggleCell, periodID, slot.Shift, int(weekday), int(slot.Start))
			}
			row = append(row, keyboard.Button(cellGlyph(cell.State), data))
		}
		kb.AddRow(row)
	}

	nav := make([]models.InlineKeyboardButton, 0, len(model.Shifts()))
	for _, shift := range model.Shifts() {
		label := shift.Label()
		if shift == grid.Shift {
			label = "• " + label
		}
		nav = append(nav, keyboard.Button(label, fmt.Sprintf("%s%d:%d:%s", GridNav, profID, periodID, shift)))
	}
	kb.AddRow(nav)

	kb.Row(keyboard.Button("🖼 Image", fmt.Sprintf("%s%d:%d", GridImage, profID, periodID)))

	return kb.Build()
}
