package sim

import (
	"testing"
)

// TestFindMinimumAlternating tests the canonical scenario: trace
// [1,2,1,2,1,2] needs exactly 2 frames; with 1 frame every reference faults
func TestFindMinimumAlternating(t *testing.T) {
	trace := makeTrace("alternating", 1, 2, 1, 2, 1, 2)

	for _, kind := range []PolicyKind{PolicyLRU, PolicyFIFO} {
		finder := NewFinder(kind, 1)
		frames, err := finder.FindMinimum(trace)
		if err != nil {
			t.Fatalf("%s: FindMinimum failed: %v", kind, err)
		}
		if frames != 2 {
			t.Errorf("%s: expected minimum 2 frames, got %d", kind, frames)
		}
	}

	// Sanity: one frame thrashes
	result, err := SimulateOnce(PolicyLRU, 1, trace, 1, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Faults != 6 {
		t.Errorf("Expected 6 faults with 1 frame, got %d", result.Faults)
	}
}

// TestFindMinimumLinearPolicies tests the linear scan path used by policies
// without the stack property
func TestFindMinimumLinearPolicies(t *testing.T) {
	trace := makeTrace("alternating", 1, 2, 1, 2, 1, 2)

	for _, kind := range []PolicyKind{PolicyRandom, PolicyClock} {
		finder := NewFinder(kind, 1)
		if finder.Monotone {
			t.Errorf("%s: finder should not assume monotonicity", kind)
		}

		frames, err := finder.FindMinimum(trace)
		if err != nil {
			t.Fatalf("%s: FindMinimum failed: %v", kind, err)
		}
		if frames != 2 {
			t.Errorf("%s: expected minimum 2 frames, got %d", kind, frames)
		}
	}
}

// TestFindMinimumMatchesLinear tests that binary search agrees with a
// linear scan for stack policies over sampled traces
func TestFindMinimumMatchesLinear(t *testing.T) {
	for _, kind := range []PolicyKind{PolicyLRU, PolicyFIFO} {
		for seed := int64(30); seed < 34; seed++ {
			trace := randomTrace(seed, 120, 8)

			bisecting := NewFinder(kind, 1)
			fast, err := bisecting.FindMinimum(trace)
			if err != nil {
				t.Fatalf("%s seed %d: bisect failed: %v", kind, seed, err)
			}

			scanning := NewFinder(kind, 1)
			scanning.Monotone = false
			slow, err := scanning.FindMinimum(trace)
			if err != nil {
				t.Fatalf("%s seed %d: scan failed: %v", kind, seed, err)
			}

			if fast != slow {
				t.Errorf("%s seed %d: bisect found %d, scan found %d", kind, seed, fast, slow)
			}
		}
	}
}

// TestFindMinimumUpperBound tests that the working set size is reached at
// the distinct-page bound
func TestFindMinimumUpperBound(t *testing.T) {
	// Worst case for any policy: cyclic trace over 4 pages needs all 4
	trace := makeTrace("cyclic", 1, 2, 3, 4, 1, 2, 3, 4, 1, 2, 3, 4)

	finder := NewFinder(PolicyLRU, 1)
	frames, err := finder.FindMinimum(trace)
	if err != nil {
		t.Fatalf("FindMinimum failed: %v", err)
	}
	if frames != 4 {
		t.Errorf("Expected minimum 4 frames, got %d", frames)
	}
}

// TestFindMinimumNoWritebacks tests the write-back predicate, the original
// "memory" mode semantics: smallest frame count with no dirty eviction
func TestFindMinimumNoWritebacks(t *testing.T) {
	trace := NewTrace("written", []PageReference{
		ref(1, Write),
		ref(2, Write),
		ref(1, Write),
		ref(2, Write),
	})

	finder := NewFinder(PolicyLRU, 1)
	finder.Predicate = NoWritebacks
	finder.Monotone = false

	frames, err := finder.FindMinimum(trace)
	if err != nil {
		t.Fatalf("FindMinimum failed: %v", err)
	}
	if frames != 2 {
		t.Errorf("Expected 2 frames for a write-free run, got %d", frames)
	}
}

// TestFindMinimumEmptyTrace tests rejection of an empty trace
func TestFindMinimumEmptyTrace(t *testing.T) {
	finder := NewFinder(PolicyLRU, 1)
	_, err := finder.FindMinimum(NewTrace("empty", nil))
	if !IsErrorCode(err, ErrCodeTraceEmpty) {
		t.Errorf("Expected empty-trace error, got %v", err)
	}
}
