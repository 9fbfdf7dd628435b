package store

import (
	"reflect"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-natours/internal/query"
)

// Field binds one SQL column to a field of T.
type Field[T any] struct {
	query.Column

	// Generated fields default in the database. They are written on insert
	// only when set and never updated.
	Generated bool
	// Private fields are persisted but cannot be filtered, sorted or
	// projected through list parameters.
	Private bool

	ref   func(*T) any
	value func(*T) any
}

type fieldOption func(*fieldSpec)

type fieldSpec struct {
	hidden, generated, private bool
}

func hidden() fieldOption    { return func(s *fieldSpec) { s.hidden = true } }
func generated() fieldOption { return func(s *fieldSpec) { s.generated = true } }
func private() fieldOption   { return func(s *fieldSpec) { s.private = true } }

// field declares a column stored in the V-typed field returned by ref.
func field[T, V any](json, name string, kind query.Kind, ref func(*T) *V, opts ...fieldOption) Field[T] {
	var spec fieldSpec
	for _, opt := range opts {
		opt(&spec)
	}

	return Field[T]{
		Column:    query.Column{JSON: json, Name: name, Kind: kind, Hidden: spec.hidden},
		Generated: spec.generated,
		Private:   spec.private,
		ref:       func(t *T) any { return ref(t) },
		value:     func(t *T) any { return *ref(t) },
	}
}

// Descriptor statically describes how a resource is stored. It implements
// [query.Schema] for the list endpoints.
type Descriptor[T any] struct {
	Table  string
	Fields []Field[T]
	// Scope is applied to every read, update and delete. Nil means no scope.
	Scope sq.Sqlizer
	// Order is the default ORDER BY term for lists.
	Order string
	// Multi lists the JSON fields allowed to repeat in list filters.
	Multi []string
}

func (d *Descriptor[T]) Lookup(json string) (query.Column, bool) {
	for _, f := range d.Fields {
		if f.JSON == json && !f.Private {
			return f.Column, true
		}
	}
	return query.Column{}, false
}

func (d *Descriptor[T]) DefaultColumns() []query.Column {
	cols := make([]query.Column, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.Hidden && !f.Private {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

func (d *Descriptor[T]) DefaultOrder() string        { return d.Order }
func (d *Descriptor[T]) Repeatable(json string) bool { return slices.Contains(d.Multi, json) }
func (d *Descriptor[T]) IDColumn() string            { return "id" }

// DefaultFields returns the JSON names of the default projection.
func (d *Descriptor[T]) DefaultFields() []string {
	cols := d.DefaultColumns()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.JSON
	}
	return out
}

// FieldNames returns the JSON names of every non-private field.
func (d *Descriptor[T]) FieldNames() []string {
	out := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.Private {
			out = append(out, f.JSON)
		}
	}
	return out
}

// columnNames returns every SQL column, private ones included.
func (d *Descriptor[T]) columnNames() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = f.Name
	}
	return out
}

// destinations returns scan targets in t for the given SQL columns.
func (d *Descriptor[T]) destinations(t *T, columns []string) []any {
	dest := make([]any, 0, len(columns))
	for _, name := range columns {
		for _, f := range d.Fields {
			if f.Name == name {
				dest = append(dest, f.ref(t))
				break
			}
		}
	}
	return dest
}

// writable returns the columns written for t and their values. Generated
// fields are only included on insert and only when non-zero.
func (d *Descriptor[T]) writable(t *T, insert bool) ([]string, []any) {
	var cols []string
	var vals []any
	for _, f := range d.Fields {
		v := f.value(t)
		if f.Generated && (!insert || reflect.ValueOf(v).IsZero()) {
			continue
		}
		cols = append(cols, f.Name)
		vals = append(vals, v)
	}
	return cols, vals
}

// scoped combines the descriptor scope with extra predicates. It returns nil
// when there is nothing to filter on, which squirrel's Where ignores.
func (d *Descriptor[T]) scoped(extra ...sq.Sqlizer) sq.Sqlizer {
	preds := sq.And{}
	if d.Scope != nil {
		preds = append(preds, d.Scope)
	}
	for _, p := range extra {
		if p != nil {
			preds = append(preds, p)
		}
	}
	if len(preds) == 0 {
		return nil
	}
	return preds
}

// KeepGenerated copies every generated field of src into dst, so that a
// decoded request body cannot set ids or timestamps.
func (d *Descriptor[T]) KeepGenerated(dst, src *T) {
	for _, f := range d.Fields {
		if f.Generated {
			reflect.ValueOf(f.ref(dst)).Elem().Set(reflect.ValueOf(f.ref(src)).Elem())
		}
	}
}

// Match turns a map of JSON field names to raw values into an equality
// predicate. Values are coerced to the column kind, unknown fields fail.
func (d *Descriptor[T]) Match(filter map[string]string) (sq.Sqlizer, error) {
	if len(filter) == 0 {
		return nil, nil
	}

	eq := sq.Eq{}
	for json, raw := range filter {
		col, ok := d.Lookup(json)
		if !ok {
			return nil, &query.CastError{Field: json, Value: raw}
		}
		v, err := col.Coerce(raw)
		if err != nil {
			return nil, err
		}
		eq[col.Name] = v
	}

	return eq, nil
}
