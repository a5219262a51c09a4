package property

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes mutation failures.
type ErrorCode string

const (
	CodeInvalidRequest      ErrorCode = "INVALID_REQUEST"
	CodeMisroutedProperty   ErrorCode = "MISROUTED_PROPERTY"
	CodeComponentNotFound   ErrorCode = "COMPONENT_NOT_FOUND"
	CodePropertyNotFound    ErrorCode = "PROPERTY_NOT_FOUND"
	CodeTypeCoercion        ErrorCode = "TYPE_COERCION"
	CodeReferenceResolution ErrorCode = "REFERENCE_RESOLUTION"
	CodeWriteFailure        ErrorCode = "WRITE_FAILURE"
	CodeHostError           ErrorCode = "HOST_ERROR"
)

// Error is a coded failure with details meant for the caller.
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, details map[string]any, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Details: details}
}

// CodeOf returns the ErrorCode carried by err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
