package dlt

import (
	"errors"
	"fmt"
)

// ParsingHickup is a recoverable decode failure: the caller should skip the
// offending message and keep reading the stream.
type ParsingHickup struct {
	Reason string
}

func (e *ParsingHickup) Error() string {
	return fmt.Sprintf("parsing hickup: %s", e.Reason)
}

// Unrecoverable is a fatal decode failure: the caller should terminate the
// current stream.
type Unrecoverable struct {
	Cause string
}

func (e *Unrecoverable) Error() string {
	return fmt.Sprintf("unrecoverable: %s", e.Cause)
}

// ErrIncomplete signals that fewer bytes are available than the format
// being decoded requires. In a streaming context this means "not a
// message yet", not a failure.
var ErrIncomplete = errors.New("dlt: incomplete, need more bytes")

// ArgumentTruncated is returned when an argument's declared length exceeds
// the bytes remaining in the payload.
type ArgumentTruncated struct {
	Reason string
}

func (e *ArgumentTruncated) Error() string {
	return fmt.Sprintf("argument truncated: %s", e.Reason)
}

// ArgumentTypeMismatch is returned when a Value's tag cannot be reached
// from its TypeInfo.
type ArgumentTypeMismatch struct {
	Reason string
}

func (e *ArgumentTypeMismatch) Error() string {
	return fmt.Sprintf("argument type mismatch: %s", e.Reason)
}

// NonVerboseTruncated is returned when a FIBEX-described signal sequence
// runs past the end of a non-verbose payload.
type NonVerboseTruncated struct {
	Reason string
}

func (e *NonVerboseTruncated) Error() string {
	return fmt.Sprintf("non-verbose payload truncated: %s", e.Reason)
}
