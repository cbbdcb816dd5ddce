// Package errors defines the failure taxonomy shared by the index, the
// query parser and the ranking engine. Every failure wraps one of the
// sentinel values so callers can branch with errors.Is.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOutOfRange       = errors.New("out of range")
	ErrDocumentNotFound = fmt.Errorf("document not found: %w", ErrOutOfRange)
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsInvalidArgument reports whether err stems from malformed caller input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsOutOfRange reports whether err stems from a positional or id lookup
// outside the live document set.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// ExitCode maps an error to the process exit code used by the command-line
// tools.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument):
		return 2
	case errors.Is(err, ErrOutOfRange):
		return 3
	default:
		return 1
	}
}
