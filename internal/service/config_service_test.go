package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/timetable"
)

func validConfigInput() timetable.ConfigInput {
	return timetable.ConfigInput{
		LessonDurationMinutes: 50,
		LessonsPerShift:       6,
		MorningStart:          "07:30",
		AfternoonStart:        "13:00",
		EveningStart:          "18:30",
	}
}

func TestConfigGetDegradesToNotConfigured(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "absent", err: model.ErrNotConfigured},
		{name: "forbidden", err: model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewConfigService(&fakeConfigStore{err: tt.err}, zap.NewNop())

			_, err := svc.Get(context.Background())
			if !errors.Is(err, model.ErrNotConfigured) {
				t.Errorf("expected ErrNotConfigured, got %v", err)
			}
		})
	}
}

func TestConfigUpsertRequiresAdmin(t *testing.T) {
	store := &fakeConfigStore{}
	svc := NewConfigService(store, zap.NewNop())

	prof := &model.User{ID: 1, Role: model.RoleProfessor}
	_, err := svc.Upsert(context.Background(), prof, validConfigInput())
	if !errors.Is(err, model.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if store.cfg != nil {
		t.Error("rejected upsert must not persist")
	}
}

func TestConfigUpsertValidationBlocksPersistence(t *testing.T) {
	store := &fakeConfigStore{}
	svc := NewConfigService(store, zap.NewNop())
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	in := validConfigInput()
	in.LessonDurationMinutes = 120
	in.LessonsPerShift = 4

	_, err := svc.Upsert(context.Background(), admin, in)

	var verrs model.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if store.cfg != nil {
		t.Error("invalid configuration must not persist")
	}
}

func TestConfigUpsertAccepted(t *testing.T) {
	store := &fakeConfigStore{}
	svc := NewConfigService(store, zap.NewNop())
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	cfg, err := svc.Upsert(context.Background(), admin, validConfigInput())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if store.cfg != cfg {
		t.Error("accepted configuration must be persisted")
	}
	if cfg.ShiftEnd(model.ShiftMorning).String() != "12:30" {
		t.Errorf("derived morning end %s, want 12:30", cfg.ShiftEnd(model.ShiftMorning))
	}
}
