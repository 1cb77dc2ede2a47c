package config

import "fmt"

// Error codes for configuration failures.
const (
	ErrCodeEmptySequence = "EMPTY_SEQUENCE"
	ErrCodeZeroBlinks    = "ZERO_BLINKS"
	ErrCodeUnknownLED    = "UNKNOWN_LED"
	ErrCodeInvalidTiming = "INVALID_TIMING"
	ErrCodeParseFailed   = "PARSE_FAILED"
)

// Error is a configuration error with a code.
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
