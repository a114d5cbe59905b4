package timetable

import (
	"reflect"
	"testing"

	"github.com/tvcampos/availability_bot/internal/model"
)

func testConfig() *model.ScheduleConfig {
	return &model.ScheduleConfig{
		LessonDurationMinutes: 50,
		LessonsPerShift:       6,
		MorningStart:          7*60 + 30,
		AfternoonStart:        13 * 60,
		EveningStart:          18*60 + 30,
	}
}

func TestGenerateSlotsContiguity(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		lessons  int
	}{
		{name: "fifty minute lessons", duration: 50, lessons: 6},
		{name: "single lesson", duration: 120, lessons: 1},
		{name: "short lessons", duration: 45, lessons: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.LessonDurationMinutes = tt.duration
			cfg.LessonsPerShift = tt.lessons

			for _, shift := range model.Shifts() {
				slots := GenerateSlots(cfg, shift)

				if len(slots) != tt.lessons {
					t.Fatalf("shift %s: expected %d slots, got %d", shift, tt.lessons, len(slots))
				}
				if slots[0].Start != cfg.ShiftStart(shift) {
					t.Errorf("shift %s: first slot starts at %s, want %s", shift, slots[0].Start, cfg.ShiftStart(shift))
				}
				for i, slot := range slots {
					if slot.End-slot.Start != model.MinuteOfDay(tt.duration) {
						t.Errorf("slot %d has length %d, want %d", i, slot.End-slot.Start, tt.duration)
					}
					if i > 0 && slots[i-1].End != slot.Start {
						t.Errorf("gap between slot %d and %d: %s != %s", i-1, i, slots[i-1].End, slot.Start)
					}
				}
				if last := slots[len(slots)-1].End; last != cfg.ShiftEnd(shift) {
					t.Errorf("shift %s: last slot ends at %s, want %s", shift, last, cfg.ShiftEnd(shift))
				}
			}
		})
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	cfg := testConfig()

	first := GenerateSlots(cfg, model.ShiftMorning)
	second := GenerateSlots(cfg, model.ShiftMorning)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two generations differ: %v vs %v", first, second)
	}
}

func TestGenerateSlotsUnconfigured(t *testing.T) {
	if slots := GenerateSlots(nil, model.ShiftMorning); len(slots) != 0 {
		t.Errorf("expected no slots without configuration, got %d", len(slots))
	}

	if _, _, ok := ShiftWindow(nil, model.ShiftMorning); ok {
		t.Error("expected no shift window without configuration")
	}
}

func TestShiftWindow(t *testing.T) {
	cfg := testConfig()

	start, end, ok := ShiftWindow(cfg, model.ShiftMorning)
	if !ok {
		t.Fatal("expected a window")
	}
	if start.String() != "07:30" || end.String() != "12:30" {
		t.Errorf("morning window %s-%s, want 07:30-12:30", start, end)
	}
}

func TestFindSlot(t *testing.T) {
	cfg := testConfig()

	slot, ok := FindSlot(cfg, model.ShiftMorning, 7*60+30+100)
	if !ok {
		t.Fatal("expected to find the third morning slot")
	}
	if slot.Range() != "09:10-10:00" {
		t.Errorf("found %s, want 09:10-10:00", slot.Range())
	}

	if _, ok := FindSlot(cfg, model.ShiftMorning, 8*60); ok {
		t.Error("a start between slot boundaries must not resolve")
	}
	if _, ok := FindSlot(nil, model.ShiftMorning, 7*60+30); ok {
		t.Error("nil configuration must not resolve any slot")
	}
}
