/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and carries a business code, a user-facing message, a process exit code and an optional cause.
*/
package errs

import (
	"errors"
	"fmt"
	"strings"

	"commongames/internal/pkg/logx"
)

// CustomError is the custom error structure used throughout the application.
// It wraps the Go error interface, adding a business code and a process exit code.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the user-facing error description.
	Message string

	// ExitCode is the process exit status the top-level handler uses for this error.
	ExitCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the standard Go error interface. It returns a formatted
// error string containing the error code, the message and the cause.
func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Error Code %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("Error Code %d: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError constructs and returns a new *CustomError instance based on a predefined error code.
// The optional details parameter supplies printf-style arguments for the message template.
// If an unknown code is provided, it defaults to returning ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:     unknownErr.Code,
			Message:  unknownErr.Message,
			ExitCode: unknownErr.ExitCode,
		}
	}

	customErr := templateErr

	if customErr.ExitCode == 0 {
		customErr.ExitCode = ExitUnknown
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
				"code", code,
			)
		}
	}

	return &customErr
}

// Wrap is NewError with an underlying cause attached.
func Wrap(code int, cause error, details ...any) *CustomError {
	customErr := NewError(code, details...)
	customErr.Err = cause
	return customErr
}

// Is reports whether err is, or wraps, a *CustomError with the given code.
func Is(err error, code int) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

// ExitCode returns the exit status for err: the CustomError's exit code when
// err carries one, ExitUnknown otherwise and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.ExitCode
	}
	return ExitUnknown
}
