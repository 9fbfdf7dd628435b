package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONList is a slice persisted as a JSONB array. A nil list is stored as an
// empty array so that the column never holds SQL NULL.
type JSONList[T any] []T

// Value implements [driver.Valuer].
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("error encoding json list: %w", err)
	}

	return b, nil
}

// Scan implements [sql.Scanner].
func (l *JSONList[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for json list")
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("error decoding json list: %w", err)
	}
	*l = items

	return nil
}
