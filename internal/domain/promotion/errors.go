package promotion

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError describes one invalid field of a rule definition.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every problem found in a rule definition.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return "invalid promotion rule: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field error was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) maxLength(field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		e.add(field, fmt.Sprintf("must be at most %d characters", limit))
	}
}
