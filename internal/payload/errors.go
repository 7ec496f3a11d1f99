package payload

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	reasonRequired = "field required"
	reasonURL      = "invalid URL: expected absolute http(s) URL"
	reasonDate     = "invalid datetime: expected format \"Wkd, DD Mon YYYY HH:MM:SS GMT\""
)

// FieldError identifies one offending field and the value it carried.
type FieldError struct {
	Path   string `json:"path"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (f FieldError) String() string {
	if f.Value == "" {
		return fmt.Sprintf("%s: %s", f.Path, f.Reason)
	}
	return fmt.Sprintf("%s: %s (got %s)", f.Path, f.Reason, f.Value)
}

// ValidationError aggregates every field error found in one document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "payload validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.String())
	}
	noun := "errors"
	if len(parts) == 1 {
		noun = "error"
	}
	return fmt.Sprintf("%d validation %s: %s", len(parts), noun, strings.Join(parts, "; "))
}

func (e *ValidationError) add(path, value, reason string) {
	e.Errors = append(e.Errors, FieldError{Path: path, Value: truncate(value, 120), Reason: reason})
}

// truncate caps value at max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut] + "..."
}
