package timetable

import (
	"strings"
	"testing"

	"github.com/tvcampos/availability_bot/internal/model"
)

func validInput() ConfigInput {
	return ConfigInput{
		LessonDurationMinutes: 50,
		LessonsPerShift:       6,
		MorningStart:          "07:30",
		AfternoonStart:        "13:00",
		EveningStart:          "18:30",
	}
}

func TestValidateConfigAccepted(t *testing.T) {
	cfg, errs := ValidateConfig(validInput())

	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.MorningStart.String() != "07:30" {
		t.Errorf("morning start %s, want 07:30", cfg.MorningStart)
	}
	if cfg.ShiftEnd(model.ShiftMorning).String() != "12:30" {
		t.Errorf("computed morning end %s, want 12:30", cfg.ShiftEnd(model.ShiftMorning))
	}
}

func TestValidateConfigFieldRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigInput)
		field  string
	}{
		{
			name:   "duration zero",
			mutate: func(in *ConfigInput) { in.LessonDurationMinutes = 0 },
			field:  "lesson_duration_minutes",
		},
		{
			name:   "duration above cap",
			mutate: func(in *ConfigInput) { in.LessonDurationMinutes = 130 },
			field:  "lesson_duration_minutes",
		},
		{
			name:   "lesson count above cap",
			mutate: func(in *ConfigInput) { in.LessonsPerShift = 25 },
			field:  "lessons_per_shift",
		},
		{
			name:   "bad time format",
			mutate: func(in *ConfigInput) { in.MorningStart = "7h30" },
			field:  "morning_start",
		},
		{
			name:   "morning outside institutional window",
			mutate: func(in *ConfigInput) { in.MorningStart = "05:00" },
			field:  "morning_start",
		},
		{
			name:   "evening outside institutional window",
			mutate: func(in *ConfigInput) { in.EveningStart = "17:00" },
			field:  "evening_start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			cfg, errs := ValidateConfig(in)
			if cfg != nil {
				t.Fatal("expected rejection")
			}
			if len(errs.ForField(tt.field)) == 0 {
				t.Errorf("expected an error on %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidateConfigSpanCapOnBothFields(t *testing.T) {
	in := validInput()
	in.LessonDurationMinutes = 120
	in.LessonsPerShift = 4 // 480 minutes, above the 360 cap

	cfg, errs := ValidateConfig(in)
	if cfg != nil {
		t.Fatal("expected rejection")
	}

	for _, field := range []string{"lesson_duration_minutes", "lessons_per_shift"} {
		msgs := errs.ForField(field)
		if len(msgs) == 0 {
			t.Fatalf("expected a span error on %s, got %v", field, errs)
		}
		if !strings.Contains(msgs[0], "480") {
			t.Errorf("span error should name the computed span, got %q", msgs[0])
		}
	}
}

func TestValidateConfigShiftOrdering(t *testing.T) {
	in := validInput()
	in.AfternoonStart = "13:00"
	in.MorningStart = "11:30" // still inside the morning window

	// ordering itself is fine here; shrink the span so only ordering matters
	in.LessonDurationMinutes = 30
	in.LessonsPerShift = 2

	if _, errs := ValidateConfig(in); errs != nil {
		t.Fatalf("control input should pass, got %v", errs)
	}

	in.AfternoonStart = "12:00"
	in.MorningStart = "12:00"
	_, errs := ValidateConfig(in)
	if len(errs.ForField("afternoon_start")) == 0 {
		t.Errorf("equal starts must be rejected on the afternoon field, got %v", errs)
	}
}

func TestValidateConfigComputedEndOverlap(t *testing.T) {
	in := validInput()
	in.MorningStart = "07:30"
	in.LessonDurationMinutes = 50
	in.LessonsPerShift = 6
	in.AfternoonStart = "12:00" // morning ends at 12:30

	cfg, errs := ValidateConfig(in)
	if cfg != nil {
		t.Fatal("expected rejection")
	}

	msgs := errs.ForField("afternoon_start")
	if len(msgs) == 0 {
		t.Fatalf("expected an overlap error on afternoon_start, got %v", errs)
	}
	if !strings.Contains(msgs[0], "12:30") {
		t.Errorf("overlap error should name the computed morning end, got %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "morning") {
		t.Errorf("overlap error should name the conflicting shift, got %q", msgs[0])
	}
}

func TestValidateConfigCollectsEverything(t *testing.T) {
	in := ConfigInput{
		LessonDurationMinutes: 0,
		LessonsPerShift:       25,
		MorningStart:          "bogus",
		AfternoonStart:        "05:00",
		EveningStart:          "18:30",
	}

	_, errs := ValidateConfig(in)

	for _, field := range []string{"lesson_duration_minutes", "lessons_per_shift", "morning_start", "afternoon_start"} {
		if len(errs.ForField(field)) == 0 {
			t.Errorf("expected an error on %s, got %v", field, errs)
		}
	}
}
