package record

import (
	"fmt"

	"github.com/kolkov/tracechain/internal/trace/marker"
)

// FormatError reports a structural problem in a trace: an unknown marker
// byte, a payload whose length disagrees with its kind, or a scope end with
// no open scope. Format errors are fatal; record boundaries cannot be
// re-established once one is seen.
//
// Example:
//
//	offset 0x2a (marker 0x00): unknown marker byte
//
//	Suggestion: check that the marker table matches the runtime that wrote the trace
type FormatError struct {
	Offset     int64       // Stream offset of the record's marker byte
	Code       byte        // Raw marker byte
	Marker     marker.Name // Symbolic marker, empty when the byte is unknown
	Message    string      // What went wrong
	Suggestion string      // Optional hint (empty if none)
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var result string
	if e.Marker != "" {
		result = fmt.Sprintf("offset 0x%x (%s): %s", e.Offset, e.Marker, e.Message)
	} else {
		result = fmt.Sprintf("offset 0x%x (marker 0x%02x): %s", e.Offset, e.Code, e.Message)
	}
	if e.Suggestion != "" {
		result += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return result
}

// NewFormatError creates a FormatError for the record at offset.
func NewFormatError(offset int64, code byte, name marker.Name, msg string) *FormatError {
	return &FormatError{
		Offset:  offset,
		Code:    code,
		Marker:  name,
		Message: msg,
	}
}

// NewFormatErrorWithSuggestion creates a FormatError carrying a hint for the user.
func NewFormatErrorWithSuggestion(offset int64, code byte, name marker.Name, msg, suggestion string) *FormatError {
	err := NewFormatError(offset, code, name, msg)
	err.Suggestion = suggestion
	return err
}
