package utils

import "strings"

// Field is a named request value checked for presence.
type Field struct {
	Name  string
	Value string
}

// ValidationError represents a validation error
type ValidationError struct {
	Missing []string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(e.Missing, ", ") + ")"
}

// RequireFields returns a *ValidationError carrying message when any field
// is empty. A value made only of spaces counts as present.
func RequireFields(message string, fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing, Message: message}
	}
	return nil
}
