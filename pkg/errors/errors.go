package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable = NewError("SOURCE_UNAVAILABLE", "log source unavailable", 2)
	ErrInvalidCriteria   = NewError("INVALID_CRITERIA", "invalid filter criteria", 3)
	ErrConfig            = NewError("CONFIG_ERROR", "configuration error", 4)
	ErrInternal          = NewError("INTERNAL_ERROR", "internal error", 1)
)

type Error struct {
	Code     string
	Message  string
	ExitCode int
	Cause    error
}

func NewError(code, message string, exitCode int) *Error {
	return &Error{Code: code, Message: message, ExitCode: exitCode}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithCause(cause error) *Error {
	err := *e
	err.Cause = cause
	return &err
}

func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	err := *e
	err.Message = fmt.Sprintf(format, args...)
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	return appErr.WithCause(err)
}

// ToExitCode maps an error to the process exit code the CLI should use.
func ToExitCode(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ErrInternal.ExitCode
}

func IsSourceUnavailable(err error) bool {
	return hasCode(err, ErrSourceUnavailable.Code)
}

func IsInvalidCriteria(err error) bool {
	return hasCode(err, ErrInvalidCriteria.Code)
}

func hasCode(err error, code string) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
