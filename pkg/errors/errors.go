package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound        = errors.New("file not found")
	ErrInvalidFormat   = errors.New("invalid wave format")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrDevice          = errors.New("audio device error")
	ErrOutOfMemory     = errors.New("out of memory")
	ErrEmptyPlaylist   = errors.New("playlist is empty")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// PlayerError wraps errors with additional context
type PlayerError struct {
	Op    string // Operation that failed
	Track string // Track path if applicable
	Err   error  // Underlying error
}

func (e *PlayerError) Error() string {
	if e.Track != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Track, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PlayerError) Unwrap() error {
	return e.Err
}

// NewPlayerError creates a new PlayerError
func NewPlayerError(op, track string, err error) *PlayerError {
	return &PlayerError{Op: op, Track: track, Err: err}
}

// ScanError represents an error during library scanning
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error at %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err must end the session.
// Device and allocation failures are fatal; everything else is reported
// to the user and the session continues.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDevice) || errors.Is(err, ErrOutOfMemory)
}
