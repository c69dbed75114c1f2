package models

import (
	"fmt"
)

// ValidationError signals a malformed reply or moderation request: a
// programming or configuration mistake, raised to the caller rather than
// converted into a partial result.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
