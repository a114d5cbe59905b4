package timetable

import "github.com/tvcampos/availability_bot/internal/model"

// Reconcile matches generated slots against the stored intervals of one
// weekday and returns exactly one cell per slot, in slot order. Intervals for
// other weekdays are ignored.
//
// When several intervals overlap the same slot the first one in list order
// wins. Nothing in the data model prevents overlapping intervals for the same
// professor and day, so the repository returns them ordered by creation time
// and the oldest record wins deterministically.
func Reconcile(slots []model.LessonSlot, weekday model.Weekday, intervals []*model.AvailabilityInterval) []model.Cell {
	cells := make([]model.Cell, 0, len(slots))

	for _, slot := range slots {
		cell := model.Cell{Weekday: weekday, Slot: slot, State: model.CellEmpty}

		for _, interval := range intervals {
			if interval.Weekday != weekday {
				continue
			}
			if !interval.Overlaps(slot) {
				continue
			}

			cell.Interval = interval
			if interval.Status == model.StatusUnavailable {
				cell.State = model.CellUnavailable
			} else {
				cell.State = model.CellAvailable
			}
			break
		}

		cells = append(cells, cell)
	}

	return cells
}
