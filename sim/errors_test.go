package sim

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSimError(t *testing.T) {
	err := NewSimError(
		ErrCodeTraceEmpty,
		"Run",
		"trace contains no references",
		nil,
	)

	if err.Code != ErrCodeTraceEmpty {
		t.Errorf("Expected error code %d, got %d", ErrCodeTraceEmpty, err.Code)
	}

	if err.Op != "Run" {
		t.Errorf("Expected op 'Run', got '%s'", err.Op)
	}

	expected := "Run: trace contains no references"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestSimErrorWithUnderlying(t *testing.T) {
	underlying := fmt.Errorf("open failed")
	err := NewSimError(
		ErrCodeTraceNotFound,
		"LoadTrace",
		"cannot read trace",
		underlying,
	)

	if err.Err != underlying {
		t.Error("Underlying error not set correctly")
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != underlying {
		t.Error("Unwrap did not return underlying error")
	}

	// Test error message includes underlying error
	expected := "LoadTrace: cannot read trace: open failed"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      *SimError
		code     ErrorCode
		contains string
	}{
		{
			name:     "BadFrameCount",
			err:      ErrBadFrameCount("test", 0),
			code:     ErrCodeBadFrameCount,
			contains: "frame count must be positive",
		},
		{
			name:     "UnknownPolicy",
			err:      ErrUnknownPolicy("test", "belady"),
			code:     ErrCodeUnknownPolicy,
			contains: "unknown replacement policy",
		},
		{
			name:     "TraceEmpty",
			err:      ErrTraceEmpty("test", "gcc"),
			code:     ErrCodeTraceEmpty,
			contains: "no references",
		},
		{
			name:     "TraceRead",
			err:      ErrTraceRead("test", "gcc", fmt.Errorf("short read")),
			code:     ErrCodeTraceRead,
			contains: "reading trace gcc failed",
		},
		{
			name:     "TableFull",
			err:      ErrTableFull("test", 12),
			code:     ErrCodeTableFull,
			contains: "no free frame",
		},
		{
			name:     "VictimNotResident",
			err:      ErrVictimNotResident("test", 12),
			code:     ErrCodeVictimNotResident,
			contains: "non-resident victim",
		},
		{
			name:     "SearchInfeasible",
			err:      ErrSearchInfeasible("test", 8),
			code:     ErrCodeSearchInfeasible,
			contains: "no frame count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %d, got %d", tt.code, tt.err.Code)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Expected message to contain '%s', got '%s'", tt.contains, tt.err.Error())
			}
		})
	}
}

func TestErrorCodeMatching(t *testing.T) {
	err := ErrTraceEmpty("Run", "gcc")

	if !IsErrorCode(err, ErrCodeTraceEmpty) {
		t.Error("IsErrorCode should match the trace-empty code")
	}
	if IsErrorCode(err, ErrCodeTableFull) {
		t.Error("IsErrorCode should not match a different code")
	}
	if IsErrorCode(fmt.Errorf("plain"), ErrCodeTraceEmpty) {
		t.Error("IsErrorCode should not match a plain error")
	}

	if GetErrorCode(err) != ErrCodeTraceEmpty {
		t.Errorf("Expected code %d, got %d", ErrCodeTraceEmpty, GetErrorCode(err))
	}
	if GetErrorCode(fmt.Errorf("plain")) != ErrCodeUnknown {
		t.Error("Plain errors should map to ErrCodeUnknown")
	}

	// errors.Is matches on code
	if !errors.Is(err, &SimError{Code: ErrCodeTraceEmpty}) {
		t.Error("errors.Is should match on error code")
	}
}

func TestIsInvariantViolation(t *testing.T) {
	violations := []*SimError{
		ErrTableFull("test", 1),
		ErrPageNotResident("test", 1),
		ErrNoVictim("test"),
		ErrVictimNotResident("test", 1),
		ErrSearchInfeasible("test", 1),
	}
	for _, err := range violations {
		if !IsInvariantViolation(err) {
			t.Errorf("%v should be an invariant violation", err)
		}
	}

	benign := []*SimError{
		ErrBadFrameCount("test", 0),
		ErrUnknownPolicy("test", "x"),
		ErrTraceEmpty("test", "gcc"),
	}
	for _, err := range benign {
		if IsInvariantViolation(err) {
			t.Errorf("%v should not be an invariant violation", err)
		}
	}
}
