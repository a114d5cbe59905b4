package model

type CellState string

const (
	CellEmpty       CellState = "empty"
	CellAvailable   CellState = "available"
	CellUnavailable CellState = "unavailable"
	CellPending     CellState = "pending" // a mutation for this exact cell is in flight
)

// Cell is the reconciled state of one (weekday, slot) pair. Interval points
// at the matched stored interval and is nil when the cell is empty.
type Cell struct {
	Weekday  Weekday               `json:"weekday"`
	Slot     LessonSlot            `json:"slot"`
	State    CellState             `json:"state"`
	Interval *AvailabilityInterval `json:"interval,omitempty"`
}
