package validators

import (
	"errors"
	"strings"
)

// ErrUnsupportedType is returned for values without registered rules.
var ErrUnsupportedType = errors.New("unsupported type for validation")

// FieldViolation is one failed rule.
type FieldViolation struct {
	// Field is the JSON name of the offending field.
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError collects every failed rule of one value.
type ValidationError struct {
	Violations []FieldViolation
}

// Messages returns the violation messages in field order.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Message
	}
	return out
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), ". ")
}

// NewValidationError builds a ValidationError from field/message pairs
// raised outside the rule tables.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Rule: "custom", Message: message}}}
}
