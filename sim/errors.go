package sim

import (
	"fmt"
)

// ErrorCode represents different types of simulation errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Configuration errors
	ErrCodeBadFrameCount
	ErrCodeUnknownPolicy
	ErrCodeBadConfig

	// Trace errors
	ErrCodeTraceNotFound
	ErrCodeTraceParse
	ErrCodeTraceEmpty
	ErrCodeTraceRead

	// Invariant violations (core bugs, unconditionally fatal to the run)
	ErrCodeTableFull
	ErrCodePageNotResident
	ErrCodePageResident
	ErrCodeNoVictim
	ErrCodeVictimNotResident
	ErrCodeSearchInfeasible
)

// SimError represents a simulation error with context
type SimError struct {
	Code    ErrorCode
	Message string
	Op      string // Operation that failed
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a specific error code
func (e *SimError) Is(target error) bool {
	if t, ok := target.(*SimError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewSimError creates a new simulation error
func NewSimError(code ErrorCode, op, message string, err error) *SimError {
	return &SimError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Helper functions for common errors

func ErrBadFrameCount(op string, frames int) *SimError {
	return NewSimError(
		ErrCodeBadFrameCount,
		op,
		fmt.Sprintf("frame count must be positive, got %d", frames),
		nil,
	)
}

func ErrUnknownPolicy(op, name string) *SimError {
	return NewSimError(
		ErrCodeUnknownPolicy,
		op,
		fmt.Sprintf("unknown replacement policy %q", name),
		nil,
	)
}

func ErrTraceNotFound(op, path string, err error) *SimError {
	return NewSimError(
		ErrCodeTraceNotFound,
		op,
		fmt.Sprintf("cannot read trace %s", path),
		err,
	)
}

func ErrTraceParse(op string, lineNo int, line string, err error) *SimError {
	return NewSimError(
		ErrCodeTraceParse,
		op,
		fmt.Sprintf("malformed trace line %d: %q", lineNo, line),
		err,
	)
}

func ErrTraceEmpty(op, traceID string) *SimError {
	return NewSimError(
		ErrCodeTraceEmpty,
		op,
		fmt.Sprintf("trace %s contains no references", traceID),
		nil,
	)
}

func ErrTraceRead(op, traceID string, err error) *SimError {
	return NewSimError(
		ErrCodeTraceRead,
		op,
		fmt.Sprintf("reading trace %s failed", traceID),
		err,
	)
}

func ErrTableFull(op string, page uint32) *SimError {
	return NewSimError(
		ErrCodeTableFull,
		op,
		fmt.Sprintf("install of page %d with no free frame", page),
		nil,
	)
}

func ErrPageNotResident(op string, page uint32) *SimError {
	return NewSimError(
		ErrCodePageNotResident,
		op,
		fmt.Sprintf("page %d is not resident", page),
		nil,
	)
}

func ErrPageResident(op string, page uint32) *SimError {
	return NewSimError(
		ErrCodePageResident,
		op,
		fmt.Sprintf("page %d is already resident", page),
		nil,
	)
}

func ErrNoVictim(op string) *SimError {
	return NewSimError(
		ErrCodeNoVictim,
		op,
		"victim selection on an empty frame table",
		nil,
	)
}

func ErrVictimNotResident(op string, page uint32) *SimError {
	return NewSimError(
		ErrCodeVictimNotResident,
		op,
		fmt.Sprintf("policy selected non-resident victim page %d", page),
		nil,
	)
}

func ErrSearchInfeasible(op string, bound uint32) *SimError {
	return NewSimError(
		ErrCodeSearchInfeasible,
		op,
		fmt.Sprintf("no frame count up to %d satisfies the predicate", bound),
		nil,
	)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if se, ok := err.(*SimError); ok {
		return se.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	if se, ok := err.(*SimError); ok {
		return se.Code
	}
	return ErrCodeUnknown
}

// IsInvariantViolation reports whether the error indicates a core bug
// rather than bad input. These abort the run unconditionally.
func IsInvariantViolation(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeTableFull, ErrCodePageNotResident, ErrCodePageResident,
		ErrCodeNoVictim, ErrCodeVictimNotResident, ErrCodeSearchInfeasible,
		ErrCodeInternal:
		return true
	}
	return false
}
