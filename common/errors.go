// Package common provides shared constants, types, and utilities
// used across the mulltray application.
package common

import "errors"

// Sentinel errors for daemon and tray operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Daemon errors.
	ErrDaemonUnavailable = errors.New("vpn daemon unavailable")
	ErrStreamClosed      = errors.New("daemon event stream closed")

	// Relay settings errors.
	ErrNoRelaySettings          = errors.New("daemon returned no relay settings")
	ErrUnsupportedRelaySettings = errors.New("unsupported relay settings (only normal settings are supported)")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}
