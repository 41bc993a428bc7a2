package causality

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by chain queries for ids absent from the message table.
var ErrNotFound = errors.New("causality: message not found")

// LookupError reports a query for an unknown message. It wraps ErrNotFound
// and never affects the graph it was raised on.
type LookupError struct {
	ID int64
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("message %d: %v", e.ID, ErrNotFound)
}

// Unwrap returns ErrNotFound.
func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// DuplicateError reports a reused message or pending promise id in strict mode.
type DuplicateError struct {
	ID      int64 // The reused id
	Offset  int64 // Stream offset of the second record
	Promise bool  // True when the pending promise id was reused
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	if e.Promise {
		return fmt.Sprintf("offset 0x%x: promise %d already has a pending send", e.Offset, e.ID)
	}
	return fmt.Sprintf("offset 0x%x: message id %d reused", e.Offset, e.ID)
}
