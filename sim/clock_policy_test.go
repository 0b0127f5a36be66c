package sim

import (
	"testing"
)

// TestClockVictimUnreferenced tests that a clear reference bit is evicted first
func TestClockVictimUnreferenced(t *testing.T) {
	ft := NewFrameTable(3)
	fillTable(t, ft, 1, 2, 3)

	// Only page 2 gets its reference bit set
	if err := ft.Touch(2, 5, Read); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	policy := &ClockPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok {
		t.Fatal("Should have a victim")
	}
	if victim != 1 {
		t.Errorf("Expected victim 1, got %d", victim)
	}
}

// TestClockSecondChance tests that referenced pages survive one sweep
func TestClockSecondChance(t *testing.T) {
	ft := NewFrameTable(3)
	fillTable(t, ft, 1, 2, 3)

	// All reference bits set: the sweep clears them, then evicts the first
	for _, page := range []uint32{1, 2, 3} {
		if err := ft.Touch(page, 5, Read); err != nil {
			t.Fatalf("Touch failed: %v", err)
		}
	}

	policy := &ClockPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok {
		t.Fatal("Should have a victim")
	}
	if victim != 1 {
		t.Errorf("Expected victim 1 after full sweep, got %d", victim)
	}
}

// TestClockHandAdvances tests that the hand resumes past the last victim
func TestClockHandAdvances(t *testing.T) {
	ft := NewFrameTable(3)
	fillTable(t, ft, 1, 2, 3)

	policy := &ClockPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok || victim != 1 {
		t.Fatalf("Expected first victim 1, got %d (ok=%v)", victim, ok)
	}
	if _, err := ft.Evict(victim); err != nil {
		t.Fatalf("Evict failed: %v", err)
	}

	// The hand skips the emptied frame and picks the next candidate
	victim, ok = policy.Victim(ft)
	if !ok || victim != 2 {
		t.Fatalf("Expected second victim 2, got %d (ok=%v)", victim, ok)
	}
}

// TestClockVictimEmpty tests victim selection on an empty table
func TestClockVictimEmpty(t *testing.T) {
	ft := NewFrameTable(3)

	policy := &ClockPolicy{}
	if _, ok := policy.Victim(ft); ok {
		t.Error("Empty table should yield no victim")
	}
}
