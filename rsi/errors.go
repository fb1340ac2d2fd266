package rsi

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFormat is matched (via errors.Is) by every *FormatError.
	ErrFormat = errors.New("rsi: format error")

	// ErrSizeMismatch is returned when a frame or state does not have the
	// size of the package it is added to.
	ErrSizeMismatch = errors.New("rsi: size mismatch")

	// ErrUnsupportedDirection is returned when a foreign source reports a
	// direction count other than 1, 4 or 8.
	ErrUnsupportedDirection = errors.New("rsi: unsupported direction count")

	// ErrImportSourceUnavailable is returned by foreign source adapters when
	// the source cannot be read.
	ErrImportSourceUnavailable = errors.New("rsi: import source unavailable")
)

// FormatError describes malformed or inconsistent package data. State is the
// canonical name of the offending state, or empty when the problem is with
// the package as a whole.
type FormatError struct {
	State  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.State == "" {
		return "rsi: format error: " + e.Reason
	}
	return fmt.Sprintf("rsi: format error in state %q: %s", e.State, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) true for any *FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatErrorf(state, format string, args ...interface{}) error {
	return &FormatError{State: state, Reason: fmt.Sprintf(format, args...)}
}
