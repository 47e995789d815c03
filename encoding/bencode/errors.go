package bencode

import (
	"errors"
	"fmt"
)

// MalformedInputError is returned for any input that is not valid bencode.
// Decoding stops at the first violation; no partial value is returned.
type MalformedInputError struct {
	// Offset is the byte offset in the top-level input at which the
	// violation was detected.
	Offset int

	// Reason is a human-readable description of the violation.
	Reason string

	// Err is the underlying cause, if any.
	Err error
}

func (e *MalformedInputError) Error() string {
	msg := fmt.Sprintf("bencode: malformed input at offset %d: %s", e.Offset, e.Reason)
	if e.Err != nil {
		msg += ", " + e.Err.Error()
	}
	return msg
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// IsMalformedInput reports whether err is, or wraps, a *MalformedInputError.
func IsMalformedInput(err error) bool {
	var merr *MalformedInputError
	return errors.As(err, &merr)
}

func malformed(off int, format string, v ...interface{}) *MalformedInputError {
	return &MalformedInputError{Offset: off, Reason: fmt.Sprintf(format, v...)}
}
