package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/tabla/internal/grid/project"
	"github.com/thenoetrevino/tabla/internal/models"
	boardservice "github.com/thenoetrevino/tabla/internal/services/board"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Board not found, item not found, column not found,
	// or any case where a resource ID or name doesn't exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Invalid JSON cell values or data that cannot be processed.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty names, unknown column types, bad filter conditions,
	// or any case where input fails validation rules.
	ExitValidation = 5
)

// StatusError carries the process exit code for a failed command. The error
// has already been reported to the user.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Exit wraps err with an explicit exit code
func Exit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &StatusError{Code: code, Err: err}
}

// Exitf builds a StatusError from a format string
func Exitf(code int, format string, args ...any) error {
	return &StatusError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode picks the exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}

	switch {
	case errors.Is(err, models.ErrBoardNotFound),
		errors.Is(err, models.ErrItemNotFound),
		errors.Is(err, models.ErrGroupNotFound),
		errors.Is(err, models.ErrColumnNotFound):
		return ExitNotFound
	case errors.Is(err, boardservice.ErrEmptyName),
		errors.Is(err, boardservice.ErrNameTooLong),
		errors.Is(err, boardservice.ErrInvalidColumnID),
		errors.Is(err, boardservice.ErrInvalidColumnType),
		errors.Is(err, boardservice.ErrInvalidPosition),
		errors.Is(err, boardservice.ErrDuplicateColumn),
		errors.Is(err, boardservice.ErrReservedColumn),
		errors.Is(err, boardservice.ErrSyntheticGroup),
		errors.Is(err, boardservice.ErrCrossBoardMove),
		errors.Is(err, project.ErrInvalidCondition):
		return ExitValidation
	}
	return ExitError
}

// errorCode names an error for JSON output
func errorCode(err error) string {
	switch ExitCode(err) {
	case ExitNotFound:
		return "NOT_FOUND"
	case ExitValidation:
		return "VALIDATION_ERROR"
	case ExitUsage:
		return "USAGE_ERROR"
	case ExitDataErr:
		return "DATA_ERROR"
	default:
		return "ERROR"
	}
}
