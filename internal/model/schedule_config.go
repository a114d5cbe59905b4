package model

import "time"

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// Shifts returns the three shifts in daily order.
func Shifts() []Shift {
	return []Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}
}

func ParseShift(s string) (Shift, bool) {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return Shift(s), true
	}
	return "", false
}

func (s Shift) Label() string {
	switch s {
	case ShiftMorning:
		return "Morning"
	case ShiftAfternoon:
		return "Afternoon"
	case ShiftEvening:
		return "Evening"
	}
	return string(s)
}

// Window returns the institutional window the shift start must fall into.
func (s Shift) Window() (start, end MinuteOfDay) {
	switch s {
	case ShiftMorning:
		return 6 * 60, 12 * 60
	case ShiftAfternoon:
		return 12 * 60, 18 * 60
	case ShiftEvening:
		return 18 * 60, 23*60 + 59
	}
	return 0, 0
}

// Institutional limits on the schedule configuration.
const (
	MaxLessonDurationMinutes = 120
	MaxLessonsPerShift       = 20
	MaxShiftSpanMinutes      = 360
)

// ScheduleConfig is the institution-wide configuration singleton. It is only
// ever overwritten in place, never deleted. Shift end times are derived on
// read and never stored.
type ScheduleConfig struct {
	LessonDurationMinutes int         `json:"lesson_duration_minutes"`
	LessonsPerShift       int         `json:"lessons_per_shift"`
	MorningStart          MinuteOfDay `json:"morning_start"`
	AfternoonStart        MinuteOfDay `json:"afternoon_start"`
	EveningStart          MinuteOfDay `json:"evening_start"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

func (c *ScheduleConfig) ShiftStart(s Shift) MinuteOfDay {
	switch s {
	case ShiftMorning:
		return c.MorningStart
	case ShiftAfternoon:
		return c.AfternoonStart
	case ShiftEvening:
		return c.EveningStart
	}
	return 0
}

// ShiftEnd recomputes the shift end from the start, the lesson duration and
// the lesson count.
func (c *ScheduleConfig) ShiftEnd(s Shift) MinuteOfDay {
	return c.ShiftStart(s) + MinuteOfDay(c.LessonDurationMinutes*c.LessonsPerShift)
}
