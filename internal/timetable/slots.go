package timetable

import "github.com/tvcampos/availability_bot/internal/model"

// GenerateSlots derives the ordered lesson slots of one shift from the
// schedule configuration. Slots are contiguous whole-minute intervals
// starting at the shift start; calling twice with the same configuration
// yields an identical sequence. A nil configuration yields no slots and
// callers render the unconfigured state themselves.
func GenerateSlots(cfg *model.ScheduleConfig, shift model.Shift) []model.LessonSlot {
	if cfg == nil {
		return nil
	}

	slots := make([]model.LessonSlot, 0, cfg.LessonsPerShift)
	cursor := cfg.ShiftStart(shift)
	for i := 0; i < cfg.LessonsPerShift; i++ {
		end := cursor + model.MinuteOfDay(cfg.LessonDurationMinutes)
		slots = append(slots, model.LessonSlot{Shift: shift, Start: cursor, End: end})
		cursor = end
	}

	return slots
}

// ShiftWindow returns the shift's overall start and end for display. ok is
// false when no configuration is defined.
func ShiftWindow(cfg *model.ScheduleConfig, shift model.Shift) (start, end model.MinuteOfDay, ok bool) {
	if cfg == nil {
		return 0, 0, false
	}
	return cfg.ShiftStart(shift), cfg.ShiftEnd(shift), true
}

// FindSlot locates the generated slot with the given start. A miss means the
// caller holds a stale cell reference from an older configuration.
func FindSlot(cfg *model.ScheduleConfig, shift model.Shift, start model.MinuteOfDay) (model.LessonSlot, bool) {
	for _, slot := range GenerateSlots(cfg, shift) {
		if slot.Start == start {
			return slot, true
		}
	}
	return model.LessonSlot{}, false
}
