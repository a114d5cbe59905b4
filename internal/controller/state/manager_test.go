package state

import "testing"

func TestManagerDialogLifecycle(t *testing.T) {
	sm := NewManager()

	if got := sm.GetState(1); got != StateNone {
		t.Fatalf("fresh manager state = %q, want none", got)
	}

	sm.SetState(1, StateConfigDuration)
	sm.SetData(1, "config_duration", 50)

	if got := sm.GetState(1); got != StateConfigDuration {
		t.Fatalf("state = %q, want %q", got, StateConfigDuration)
	}
	value, ok := sm.GetData(1, "config_duration")
	if !ok || value.(int) != 50 {
		t.Fatalf("data = %v (%v), want 50", value, ok)
	}

	// Another user's dialog is independent.
	if got := sm.GetState(2); got != StateNone {
		t.Fatalf("state of other user = %q, want none", got)
	}

	sm.SetState(1, StateNone)
	if got := sm.GetState(1); got != StateNone {
		t.Fatalf("state after reset = %q, want none", got)
	}
	if _, ok := sm.GetData(1, "config_duration"); ok {
		t.Fatal("data survived a reset to none")
	}
}

func TestManagerClearState(t *testing.T) {
	sm := NewManager()
	sm.SetState(7, StateConfigConfirm)
	sm.SetData(7, "config_morning", "07:30")

	sm.ClearState(7)

	if got := sm.GetState(7); got != StateNone {
		t.Fatalf("state after clear = %q, want none", got)
	}
	if _, ok := sm.GetData(7, "config_morning"); ok {
		t.Fatal("data survived a clear")
	}
}
