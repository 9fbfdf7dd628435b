package query

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the value type of a column, used to coerce raw parameter values.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
	KindUUID
	// KindList is a JSONB array; equality means containment.
	KindList
)

// Column describes one queryable column of a resource.
type Column struct {
	// JSON is the name used in URLs and response bodies.
	JSON string
	// Name is the SQL column.
	Name string
	Kind Kind
	// Hidden columns are left out of the default projection but can still be
	// requested explicitly with the fields parameter.
	Hidden bool
}

// Coerce converts raw to the column kind.
func (c Column) Coerce(raw string) (any, error) {
	switch c.Kind {
	case KindInt:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, &CastError{Field: c.JSON, Value: raw}
		}
		return v, nil
	case KindFloat:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &CastError{Field: c.JSON, Value: raw}
		}
		return v, nil
	case KindBool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, &CastError{Field: c.JSON, Value: raw}
		}
		return v, nil
	case KindTime:
		for _, layout := range []string{time.RFC3339Nano, time.DateTime, time.DateOnly} {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, &CastError{Field: c.JSON, Value: raw}
	case KindUUID:
		v, err := uuid.Parse(raw)
		if err != nil {
			return nil, &CastError{Field: c.JSON, Value: raw}
		}
		return v, nil
	default:
		return raw, nil
	}
}

// Schema describes the columns a list query may reference.
type Schema interface {
	// Lookup resolves a JSON field name to its column.
	Lookup(field string) (Column, bool)
	// DefaultColumns returns the projection used when no fields are requested.
	DefaultColumns() []Column
	// DefaultOrder is the ORDER BY term used when no valid sort is requested.
	DefaultOrder() string
	// Repeatable reports whether field may carry several values, which then
	// match as IN. Other repeated fields keep their last value.
	Repeatable(field string) bool
	// IDColumn is the SQL primary key column used as a sort tiebreaker.
	IDColumn() string
}

// Table is a static [Schema].
type Table struct {
	Columns []Column
	// Order is the default ORDER BY term, e.g. "created_at DESC".
	Order string
	// Multi lists the JSON fields allowed to repeat.
	Multi []string
	// ID is the primary key column, "id" when empty.
	ID string
}

func (t Table) Lookup(field string) (Column, bool) {
	for _, c := range t.Columns {
		if c.JSON == field {
			return c, true
		}
	}
	return Column{}, false
}

func (t Table) DefaultColumns() []Column {
	cols := make([]Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Hidden {
			cols = append(cols, c)
		}
	}
	return cols
}

func (t Table) DefaultOrder() string {
	return t.Order
}

func (t Table) Repeatable(field string) bool {
	return slices.Contains(t.Multi, field)
}

func (t Table) IDColumn() string {
	if t.ID == "" {
		return "id"
	}
	return t.ID
}
