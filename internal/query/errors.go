package query

import "fmt"

// CastError reports a value that cannot be converted to its field type.
type CastError struct {
	Field string
	Value string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast %q to the type of field %s", e.Value, e.Field)
}
