package model

import (
	"time"

	"github.com/google/uuid"
)

// Weekday runs Monday through Saturday. Sunday has no lessons.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Weekdays returns the teaching days in week order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

func ParseWeekday(n int) (Weekday, bool) {
	if n < int(Monday) || n > int(Saturday) {
		return 0, false
	}
	return Weekday(n), true
}

func (d Weekday) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	case Saturday:
		return "Saturday"
	}
	return "?"
}

// Short returns the three-letter column header label.
func (d Weekday) Short() string {
	return d.String()[:3]
}

type AvailabilityStatus string

const (
	StatusAvailable   AvailabilityStatus = "available"
	StatusUnavailable AvailabilityStatus = "unavailable"
)

// AvailabilityInterval is a professor-declared time range on one weekday of
// one academic period. Owned and mutated only by the declaring professor.
type AvailabilityInterval struct {
	ID          uuid.UUID          `json:"id"`
	ProfessorID int64              `json:"professor_id"`
	PeriodID    int64              `json:"period_id"`
	Weekday     Weekday            `json:"weekday"`
	Start       MinuteOfDay        `json:"start"`
	End         MinuteOfDay        `json:"end"`
	Status      AvailabilityStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Overlaps reports whether the interval matches the slot. The match rule is a
// three-way OR on minute-of-day comparison: the interval contains the slot,
// the slot contains the interval, or the two merely intersect.
func (i *AvailabilityInterval) Overlaps(slot LessonSlot) bool {
	switch {
	case i.Start <= slot.Start && i.End >= slot.End:
		return true
	case slot.Start <= i.Start && slot.End >= i.End:
		return true
	case i.Start < slot.End && i.End > slot.Start:
		return true
	}
	return false
}
