package sim

import (
	"testing"
)

// fillTable installs the pages in order, one step apart
func fillTable(t *testing.T, ft *FrameTable, pages ...uint32) {
	t.Helper()
	for i, page := range pages {
		if err := ft.Install(page, uint64(i)); err != nil {
			t.Fatalf("Install(%d) failed: %v", page, err)
		}
	}
}

// TestLRUVictimOldest tests that the least-recently-used page is selected
func TestLRUVictimOldest(t *testing.T) {
	ft := NewFrameTable(3)
	fillTable(t, ft, 1, 2, 3)

	policy := &LRUPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok {
		t.Fatal("Should have a victim")
	}
	if victim != 1 {
		t.Errorf("Expected victim 1, got %d", victim)
	}
}

// TestLRUVictimAfterTouch tests that touching a page protects it
func TestLRUVictimAfterTouch(t *testing.T) {
	ft := NewFrameTable(3)
	fillTable(t, ft, 1, 2, 3)

	// Page 1 becomes most recently used; page 2 is now oldest
	if err := ft.Touch(1, 10, Read); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	policy := &LRUPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok {
		t.Fatal("Should have a victim")
	}
	if victim != 2 {
		t.Errorf("Expected victim 2, got %d", victim)
	}
}

// TestLRUVictimEmpty tests victim selection on an empty table
func TestLRUVictimEmpty(t *testing.T) {
	ft := NewFrameTable(3)

	policy := &LRUPolicy{}
	if _, ok := policy.Victim(ft); ok {
		t.Error("Empty table should yield no victim")
	}
}

// TestLRUTieBreak tests the smallest-page tie-break on equal recency
func TestLRUTieBreak(t *testing.T) {
	ft := NewFrameTable(2)

	// Same step index for both installs forces a tie
	if err := ft.Install(9, 0); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if err := ft.Install(4, 0); err != nil {
		t.Fatalf("Install failed: %v", err)
	}

	policy := &LRUPolicy{}
	victim, ok := policy.Victim(ft)
	if !ok {
		t.Fatal("Should have a victim")
	}
	if victim != 4 {
		t.Errorf("Expected tie-break victim 4, got %d", victim)
	}
}
