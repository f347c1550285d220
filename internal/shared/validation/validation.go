// Package validation provides a field-scoped error type shared by usecases.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error collects validation messages per field so the caller sees every
// violation at once instead of only the first one.
type Error struct {
	Fields map[string][]string
}

// New returns an empty Error ready to accumulate messages.
func New() *Error {
	return &Error{Fields: map[string][]string{}}
}

// Add appends a message for the named field.
func (e *Error) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field accumulated a message.
func (e *Error) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error renders the collected messages in a stable field order.
func (e *Error) Error() string {
	if !e.HasErrors() {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
