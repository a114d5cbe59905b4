package model

// LessonSlot is one fixed-duration lesson interval inside a shift. Slots are
// derived from the schedule configuration on every read and never persisted.
type LessonSlot struct {
	Shift Shift       `json:"shift"`
	Start MinuteOfDay `json:"start"`
	End   MinuteOfDay `json:"end"`
}

// Range formats the slot for user-facing messages, e.g. "08:00-08:50".
func (s LessonSlot) Range() string {
	return s.Start.String() + "-" + s.End.String()
}
