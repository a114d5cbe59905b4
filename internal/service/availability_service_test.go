package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
)

// fakeConfigStore serves a fixed configuration or a fixed error.
type fakeConfigStore struct {
	cfg *model.ScheduleConfig
	err error
}

func (f *fakeConfigStore) Get(ctx context.Context) (*model.ScheduleConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cfg, nil
}

func (f *fakeConfigStore) Upsert(ctx context.Context, cfg *model.ScheduleConfig) error {
	f.cfg = cfg
	return nil
}

// fakeAvailabilityStore is an in-memory store that counts mutations. Create
// can be made to block on a gate so in-flight behavior is observable, and any
// op can be forced to fail.
type fakeAvailabilityStore struct {
	mu        sync.Mutex
	intervals []*model.AvailabilityInterval

	creates int
	updates int
	deletes int
	lists   int

	failOp model.MutationOp

	createStarted chan struct{}
	createGate    chan struct{}
}

var errForced = errors.New("forced store failure")

func (f *fakeAvailabilityStore) List(ctx context.Context, professorID, periodID int64) ([]*model.AvailabilityInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lists++
	out := make([]*model.AvailabilityInterval, 0, len(f.intervals))
	for _, iv := range f.intervals {
		if iv.ProfessorID == professorID && iv.PeriodID == periodID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *fakeAvailabilityStore) Create(ctx context.Context, iv *model.AvailabilityInterval) error {
	// The gate only applies to the first create so unrelated cells stay
	// unblocked in the in-flight tests.
	f.mu.Lock()
	started, gate := f.createStarted, f.createGate
	f.createStarted, f.createGate = nil, nil
	f.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates++
	if f.failOp == model.OpCreate {
		return errForced
	}
	stored := *iv
	stored.CreatedAt = time.Now()
	f.intervals = append(f.intervals, &stored)
	return nil
}

func (f *fakeAvailabilityStore) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AvailabilityStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates++
	if f.failOp == model.OpUpdate {
		return errForced
	}
	for _, iv := range f.intervals {
		if iv.ID == id {
			iv.Status = status
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeAvailabilityStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes++
	if f.failOp == model.OpDelete {
		return errForced
	}
	for i, iv := range f.intervals {
		if iv.ID == id {
			f.intervals = append(f.intervals[:i], f.intervals[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func testScheduleConfig() *model.ScheduleConfig {
	return &model.ScheduleConfig{
		LessonDurationMinutes: 50,
		LessonsPerShift:       6,
		MorningStart:          7*60 + 30,
		AfternoonStart:        13 * 60,
		EveningStart:          18*60 + 30,
	}
}

func newTestService(store *fakeAvailabilityStore, configs ConfigStore) *AvailabilityService {
	return NewAvailabilityService(store, configs, zap.NewNop())
}

func professor() *model.User {
	return &model.User{ID: 42, Role: model.RoleProfessor}
}

func TestToggleCycle(t *testing.T) {
	store := &fakeAvailabilityStore{}
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})
	ctx := context.Background()
	prof := professor()
	start := model.MinuteOfDay(7*60 + 30)

	steps := []struct {
		outcome ToggleOutcome
		state   model.CellState
	}{
		{ToggleCreated, model.CellAvailable},
		{ToggleUpdated, model.CellUnavailable},
		{ToggleDeleted, model.CellEmpty},
	}

	for i, step := range steps {
		res, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if res.Outcome != step.outcome {
			t.Errorf("step %d: outcome %s, want %s", i, res.Outcome, step.outcome)
		}
		if res.Cell.State != step.state {
			t.Errorf("step %d: state %s, want %s", i, res.Cell.State, step.state)
		}
	}

	if store.creates != 1 || store.updates != 1 || store.deletes != 1 {
		t.Errorf("expected exactly one create, update and delete; got %d/%d/%d",
			store.creates, store.updates, store.deletes)
	}
	if len(store.intervals) != 0 {
		t.Errorf("expected an empty store after the full cycle, got %d intervals", len(store.intervals))
	}
}

func TestToggleDroppedWhileInFlight(t *testing.T) {
	store := &fakeAvailabilityStore{
		createStarted: make(chan struct{}),
		createGate:    make(chan struct{}),
	}
	started, gate := store.createStarted, store.createGate
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})
	ctx := context.Background()
	prof := professor()
	start := model.MinuteOfDay(7*60 + 30)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)
		done <- err
	}()

	<-started // first mutation is now in flight

	res, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)
	if err != nil {
		t.Fatalf("second activation must not fail: %v", err)
	}
	if res.Outcome != ToggleDropped {
		t.Errorf("second activation outcome %s, want %s", res.Outcome, ToggleDropped)
	}
	if res.Cell.State != model.CellPending {
		t.Errorf("second activation cell state %s, want %s", res.Cell.State, model.CellPending)
	}

	// A different cell is independent and goes through while the first is
	// still in flight.
	other, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Tuesday, start)
	if err != nil {
		t.Fatalf("independent cell must not be blocked: %v", err)
	}
	if other.Outcome != ToggleCreated {
		t.Errorf("independent cell outcome %s, want %s", other.Outcome, ToggleCreated)
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("first activation failed: %v", err)
	}

	if store.creates != 2 { // one per distinct cell, none for the dropped activation
		t.Errorf("expected 2 creates, got %d", store.creates)
	}
}

func TestTogglePendingVisibleInGrid(t *testing.T) {
	store := &fakeAvailabilityStore{
		createStarted: make(chan struct{}),
		createGate:    make(chan struct{}),
	}
	started, gate := store.createStarted, store.createGate
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})
	ctx := context.Background()
	prof := professor()
	start := model.MinuteOfDay(7*60 + 30)

	done := make(chan struct{})
	go func() {
		svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)
		close(done)
	}()
	<-started

	grid, err := svc.Grid(ctx, prof.ID, 1, model.ShiftMorning)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if got := grid.Cells[model.Monday][0].State; got != model.CellPending {
		t.Errorf("in-flight cell state %s, want %s", got, model.CellPending)
	}
	if got := grid.Cells[model.Tuesday][0].State; got != model.CellEmpty {
		t.Errorf("unrelated cell state %s, want %s", got, model.CellEmpty)
	}

	close(gate)
	<-done

	grid, err = svc.Grid(ctx, prof.ID, 1, model.ShiftMorning)
	if err != nil {
		t.Fatalf("grid after settle: %v", err)
	}
	if got := grid.Cells[model.Monday][0].State; got != model.CellAvailable {
		t.Errorf("settled cell state %s, want %s", got, model.CellAvailable)
	}
}

func TestToggleReadOnlyViewer(t *testing.T) {
	store := &fakeAvailabilityStore{}
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})

	coordinator := &model.User{ID: 7, Role: model.RoleCoordinator}
	_, err := svc.Toggle(context.Background(), coordinator, 42, 1, model.ShiftMorning, model.Monday, 7*60+30)

	if !errors.Is(err, model.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
	if store.creates+store.updates+store.deletes != 0 {
		t.Error("read-only activation must not reach the store")
	}
}

func TestToggleStaleSlot(t *testing.T) {
	store := &fakeAvailabilityStore{}
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})
	prof := professor()

	// 08:00 is between generated slot boundaries under this configuration.
	_, err := svc.Toggle(context.Background(), prof, prof.ID, 1, model.ShiftMorning, model.Monday, 8*60)
	if !errors.Is(err, model.ErrStaleSlot) {
		t.Fatalf("expected ErrStaleSlot, got %v", err)
	}

	// No configuration at all also makes every cell reference stale.
	svc = newTestService(store, &fakeConfigStore{err: model.ErrNotConfigured})
	_, err = svc.Toggle(context.Background(), prof, prof.ID, 1, model.ShiftMorning, model.Monday, 7*60+30)
	if !errors.Is(err, model.ErrStaleSlot) {
		t.Fatalf("expected ErrStaleSlot without configuration, got %v", err)
	}

	if store.creates+store.updates+store.deletes != 0 {
		t.Error("stale activations must not reach the store")
	}
}

func TestToggleMutationFailure(t *testing.T) {
	store := &fakeAvailabilityStore{failOp: model.OpCreate}
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})
	ctx := context.Background()
	prof := professor()
	start := model.MinuteOfDay(7*60 + 30)

	_, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)

	var merr *model.MutationError
	if !errors.As(err, &merr) {
		t.Fatalf("expected a MutationError, got %v", err)
	}
	if merr.Op != model.OpCreate {
		t.Errorf("failed op %s, want %s", merr.Op, model.OpCreate)
	}
	if merr.Start != start {
		t.Errorf("failed slot start %s, want %s", merr.Start, start)
	}

	// The guard must be released on failure so the cell stays retryable.
	store.failOp = ""
	res, err := svc.Toggle(ctx, prof, prof.ID, 1, model.ShiftMorning, model.Monday, start)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if res.Outcome != ToggleCreated {
		t.Errorf("retry outcome %s, want %s", res.Outcome, ToggleCreated)
	}
}

func TestGridUnconfigured(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "not configured", err: model.ErrNotConfigured},
		{name: "forbidden degrades to unconfigured", err: model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeAvailabilityStore{}, &fakeConfigStore{err: tt.err})

			grid, err := svc.Grid(context.Background(), 42, 1, model.ShiftMorning)
			if err != nil {
				t.Fatalf("unconfigured grid must not error: %v", err)
			}
			if grid.Configured {
				t.Error("grid must report unconfigured")
			}
			if len(grid.Slots) != 0 {
				t.Errorf("unconfigured grid has %d slots", len(grid.Slots))
			}
		})
	}
}

func TestGridShape(t *testing.T) {
	store := &fakeAvailabilityStore{}
	svc := newTestService(store, &fakeConfigStore{cfg: testScheduleConfig()})

	grid, err := svc.Grid(context.Background(), 42, 1, model.ShiftEvening)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}

	if len(grid.Slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(grid.Slots))
	}
	for _, weekday := range model.Weekdays() {
		cells := grid.Cells[weekday]
		if len(cells) != len(grid.Slots) {
			t.Errorf("%s has %d cells, want %d", weekday, len(cells), len(grid.Slots))
		}
	}
}
