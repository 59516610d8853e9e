package events

import (
	"errors"
	"os"
	"syscall"
)

// ErrNotConnected is returned when a message is sent before Connect
var ErrNotConnected = errors.New("not connected to daemon")

// ErrQueueFull is returned when the outgoing event queue cannot take more
var ErrQueueFull = errors.New("event queue full")

// ErrorCode represents daemon-related error types.
type ErrorCode int

const (
	ErrSocketNotFound ErrorCode = iota
	ErrSocketPermission
	ErrDaemonNotRunning
	ErrConnectionRefused
)

// DaemonError represents a structured daemon error with a fix-it hint.
type DaemonError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Err     error
}

// Error implements the error interface.
func (e *DaemonError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// Unwrap exposes the underlying dial error
func (e *DaemonError) Unwrap() error {
	return e.Err
}

const startHint = "Start daemon: tabla daemon &"

// ClassifyDaemonError maps common dial errors to structured DaemonError types.
func ClassifyDaemonError(err error) *DaemonError {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return &DaemonError{
			Code:    ErrSocketNotFound,
			Message: "Socket file not found",
			Hint:    startHint,
			Err:     err,
		}
	}

	if errors.Is(err, os.ErrPermission) {
		return &DaemonError{
			Code:    ErrSocketPermission,
			Message: "Permission denied",
			Hint:    "Check ~/.tabla/ permissions: chmod 700 ~/.tabla/",
			Err:     err,
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &DaemonError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "Daemon may have crashed. Remove ~/.tabla/tabla.sock and restart it",
			Err:     err,
		}
	}

	return &DaemonError{
		Code:    ErrDaemonNotRunning,
		Message: "Daemon not running",
		Hint:    startHint,
		Err:     err,
	}
}
