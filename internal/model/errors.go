package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConfigured signals the schedule configuration has never been
	// defined. Not a failure: callers render an "unconfigured" state.
	ErrNotConfigured = errors.New("schedule configuration not defined")

	// ErrForbidden signals a permission denial from the store.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound = errors.New("not found")

	// ErrReadOnly signals an activation on a grid the viewer does not own.
	ErrReadOnly = errors.New("grid is read only for this viewer")

	// ErrStaleSlot signals a cell reference that no longer corresponds to a
	// generated slot, usually after the configuration changed underneath a
	// rendered grid. The cell is inert; no operation is attempted.
	ErrStaleSlot = errors.New("slot does not match the current configuration")
)

type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// MutationError reports a failed availability mutation with enough context to
// tell the user which operation and which cell failed.
type MutationError struct {
	Op      MutationOp
	Weekday Weekday
	Start   MinuteOfDay
	End     MinuteOfDay
	Err     error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s availability %s %s-%s: %v", e.Op, e.Weekday, e.Start, e.End, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// FieldError attributes one validation problem to one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries every problem found in a single validation pass so
// a form can display all of them at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// ForField returns the messages attached to one field.
func (v ValidationErrors) ForField(field string) []string {
	var msgs []string
	for _, fe := range v {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}
