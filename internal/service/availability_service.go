package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/timetable"
)

// AvailabilityStore is the persistence contract for availability intervals.
// Each individual call is atomic on the store side; the service only guards
// against concurrent mutations of the same cell.
type AvailabilityStore interface {
	List(ctx context.Context, professorID, periodID int64) ([]*model.AvailabilityInterval, error)
	Create(ctx context.Context, iv *model.AvailabilityInterval) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// slotKey identifies one cell of one (professor, period) grid. In-flight
// bookkeeping is keyed on it so mutations of different cells stay
// independent while a second activation of the same cell is dropped.
type slotKey struct {
	professorID int64
	periodID    int64
	weekday     model.Weekday
	start       model.MinuteOfDay
	end         model.MinuteOfDay
}

// Grid is the reconciled availability of one shift for every teaching day.
type Grid struct {
	Configured bool
	Shift      model.Shift
	Slots      []model.LessonSlot
	Cells      map[model.Weekday][]model.Cell
}

type ToggleOutcome string

const (
	ToggleCreated ToggleOutcome = "created"
	ToggleUpdated ToggleOutcome = "updated"
	ToggleDeleted ToggleOutcome = "deleted"
	// ToggleDropped means a mutation for the same cell was still in flight
	// and this activation was ignored, not queued.
	ToggleDropped ToggleOutcome = "dropped"
)

type ToggleResult struct {
	Outcome ToggleOutcome
	Cell    model.Cell
}

// AvailabilityService reconciles generated lesson slots against stored
// intervals and drives the three-state cell toggle.
type AvailabilityService struct {
	store   AvailabilityStore
	configs ConfigStore
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[slotKey]struct{}
}

func NewAvailabilityService(store AvailabilityStore, configs ConfigStore, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:    store,
		configs:  configs,
		logger:   logger,
		inflight: make(map[slotKey]struct{}),
	}
}

// Grid builds the full weekday grid of one shift for a professor and period.
// Without a configuration (or without permission to read it) the grid comes
// back with Configured false and no slots; that is a guidance state, not an
// error. Cells whose mutation is still in flight render as pending.
func (s *AvailabilityService) Grid(ctx context.Context, professorID, periodID int64, shift model.Shift) (*Grid, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotConfigured) || errors.Is(err, model.ErrForbidden) {
			return &Grid{Shift: shift}, nil
		}
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	slots := timetable.GenerateSlots(cfg, shift)

	intervals, err := s.store.List(ctx, professorID, periodID)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}

	grid := &Grid{
		Configured: true,
		Shift:      shift,
		Slots:      slots,
		Cells:      make(map[model.Weekday][]model.Cell, len(model.Weekdays())),
	}
	for _, weekday := range model.Weekdays() {
		cells := timetable.Reconcile(slots, weekday, intervals)
		s.markPending(professorID, periodID, cells)
		grid.Cells[weekday] = cells
	}

	return grid, nil
}

// Toggle advances one cell through the empty -> available -> unavailable ->
// empty cycle, issuing exactly one store mutation. Only the owning professor
// may toggle; anyone else gets model.ErrReadOnly. An activation while the
// same cell's mutation is in flight is dropped. After a successful mutation
// the interval list is re-fetched so the returned cell reflects persisted
// truth rather than a locally patched state.
func (s *AvailabilityService) Toggle(ctx context.Context, viewer *model.User, professorID, periodID int64, shift model.Shift, weekday model.Weekday, start model.MinuteOfDay) (*ToggleResult, error) {
	if viewer == nil || viewer.ID != professorID {
		return nil, model.ErrReadOnly
	}

	cfg, err := s.configs.Get(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNotConfigured) || errors.Is(err, model.ErrForbidden) {
			// The grid the user clicked no longer has a backing configuration.
			return nil, model.ErrStaleSlot
		}
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	slot, ok := timetable.FindSlot(cfg, shift, start)
	if !ok {
		return nil, model.ErrStaleSlot
	}

	key := slotKey{professorID, periodID, weekday, slot.Start, slot.End}
	if !s.acquire(key) {
		return &ToggleResult{
			Outcome: ToggleDropped,
			Cell:    model.Cell{Weekday: weekday, Slot: slot, State: model.CellPending},
		}, nil
	}
	defer s.release(key)

	intervals, err := s.store.List(ctx, professorID, periodID)
	if err != nil {
		return nil, fmt.Errorf("list intervals: %w", err)
	}
	cell := timetable.Reconcile([]model.LessonSlot{slot}, weekday, intervals)[0]

	var op model.MutationOp
	switch cell.State {
	case model.CellEmpty:
		op = model.OpCreate
		err = s.store.Create(ctx, &model.AvailabilityInterval{
			ID:          uuid.New(),
			ProfessorID: professorID,
			PeriodID:    periodID,
			Weekday:     weekday,
			Start:       slot.Start,
			End:         slot.End,
			Status:      model.StatusAvailable,
		})
	case model.CellAvailable:
		op = model.OpUpdate
		err = s.store.UpdateStatus(ctx, cell.Interval.ID, model.StatusUnavailable)
	default:
		op = model.OpDelete
		err = s.store.Delete(ctx, cell.Interval.ID)
	}

	if err != nil {
		s.logger.Error("Availability mutation failed",
			zap.String("op", string(op)),
			zap.Int64("professor_id", professorID),
			zap.Int64("period_id", periodID),
			zap.Stringer("weekday", weekday),
			zap.String("slot", slot.Range()),
			zap.Error(err))
		return nil, &model.MutationError{Op: op, Weekday: weekday, Start: slot.Start, End: slot.End, Err: err}
	}

	// Re-fetch so the cell is derived from what the store actually holds.
	intervals, err = s.store.List(ctx, professorID, periodID)
	if err != nil {
		return nil, fmt.Errorf("refresh intervals: %w", err)
	}
	fresh := timetable.Reconcile([]model.LessonSlot{slot}, weekday, intervals)[0]

	s.logger.Info("Availability toggled",
		zap.String("op", string(op)),
		zap.Int64("professor_id", professorID),
		zap.Int64("period_id", periodID),
		zap.Stringer("weekday", weekday),
		zap.String("slot", slot.Range()),
		zap.String("state", string(fresh.State)))

	return &ToggleResult{Outcome: outcomeFor(op), Cell: fresh}, nil
}

func outcomeFor(op model.MutationOp) ToggleOutcome {
	switch op {
	case model.OpCreate:
		return ToggleCreated
	case model.OpUpdate:
		return ToggleUpdated
	default:
		return ToggleDeleted
	}
}

// acquire marks the cell as having a mutation in flight. It reports false
// when the cell is already taken.
func (s *AvailabilityService) acquire(key slotKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.inflight[key]; taken {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

// release clears the in-flight mark, success or failure.
func (s *AvailabilityService) release(key slotKey) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

func (s *AvailabilityService) markPending(professorID, periodID int64, cells []model.Cell) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range cells {
		key := slotKey{professorID, periodID, cells[i].Weekday, cells[i].Slot.Start, cells[i].Slot.End}
		if _, taken := s.inflight[key]; taken {
			cells[i].State = model.CellPending
		}
	}
}
