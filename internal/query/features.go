// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Reserved parameters consumed by Sort, LimitFields and Paginate.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

var reserved = []string{ParamPage, ParamSort, ParamLimit, ParamFields}

var operators = map[string]func(column string, v any) sq.Sqlizer{
	"gte": func(c string, v any) sq.Sqlizer { return sq.GtOrEq{c: v} },
	"gt":  func(c string, v any) sq.Sqlizer { return sq.Gt{c: v} },
	"lte": func(c string, v any) sq.Sqlizer { return sq.LtOrEq{c: v} },
	"lt":  func(c string, v any) sq.Sqlizer { return sq.Lt{c: v} },
}

// Params is the subset of url.Values read by Features.
type Params = map[string][]string

// Features accumulates filtering, ordering, projection and pagination on top
// of a base SELECT.
type Features struct {
	builder sq.SelectBuilder
	params  Params
	schema  Schema
	columns []Column
	errs    []error
	limit   uint64
	page    uint64
}

// New wraps base. The projection defaults to the schema's default columns.
func New(base sq.SelectBuilder, params Params, schema Schema) *Features {
	return &Features{
		builder: base,
		params:  params,
		schema:  schema,
		columns: schema.DefaultColumns(),
	}
}

// Filter adds a predicate per non-reserved parameter.
//
// `field[op]=v` with op in gte, gt, lte, lt becomes a range predicate. Plain
// keys become equality; a repeatable key with several values becomes IN, any
// other key keeps its last value. A key that names no column matches nothing.
func (f *Features) Filter() *Features {
	keys := slices.Sorted(maps.Keys(f.params))
	for _, key := range keys {
		if slices.Contains(reserved, key) {
			continue
		}
		values := f.params[key]
		if len(values) == 0 {
			continue
		}

		field, op := splitOperator(key)
		column, ok := f.schema.Lookup(field)
		if !ok {
			f.builder = f.builder.Where(sq.Expr("FALSE"))
			continue
		}

		if op != "" {
			build, known := operators[op]
			if !known {
				f.builder = f.builder.Where(sq.Expr("FALSE"))
				continue
			}
			v, err := column.Coerce(last(values))
			if err != nil {
				f.errs = append(f.errs, err)
				continue
			}
			f.builder = f.builder.Where(build(column.Name, v))
			continue
		}

		if f.schema.Repeatable(field) && len(values) > 1 {
			coerced := make([]any, 0, len(values))
			for _, raw := range values {
				v, err := column.Coerce(raw)
				if err != nil {
					f.errs = append(f.errs, err)
					continue
				}
				coerced = append(coerced, v)
			}
			f.builder = f.builder.Where(sq.Eq{column.Name: coerced})
			continue
		}

		f.builder = f.builder.Where(f.equal(column, last(values)))
	}

	return f
}

func (f *Features) equal(column Column, raw string) sq.Sqlizer {
	if column.Kind == KindList {
		b, _ := json.Marshal([]string{raw})
		return sq.Expr(column.Name+" @> ?::jsonb", string(b))
	}

	v, err := column.Coerce(raw)
	if err != nil {
		f.errs = append(f.errs, err)
		return sq.Expr("FALSE")
	}
	return sq.Eq{column.Name: v}
}

// Sort orders by the comma-separated sort parameter; a leading "-" sorts
// descending and unknown names are skipped. Without a valid term the schema
// default order is used. The id column is always appended as a tiebreaker.
func (f *Features) Sort() *Features {
	var terms []string
	sortedByID := false

	for _, name := range splitList(last(f.params[ParamSort])) {
		dir := " ASC"
		if strings.HasPrefix(name, "-") {
			dir = " DESC"
			name = name[1:]
		}
		column, ok := f.schema.Lookup(name)
		if !ok {
			continue
		}
		if column.Name == f.schema.IDColumn() {
			sortedByID = true
		}
		terms = append(terms, column.Name+dir)
	}

	if len(terms) == 0 && f.schema.DefaultOrder() != "" {
		terms = append(terms, f.schema.DefaultOrder())
	}
	if !sortedByID {
		terms = append(terms, f.schema.IDColumn()+" ASC")
	}

	f.builder = f.builder.OrderBy(terms...)
	return f
}

// LimitFields narrows the projection to the comma-separated fields parameter.
// Names prefixed with "-" are excluded from the default projection instead.
// The id column is kept unless "-id" is given.
func (f *Features) LimitFields() *Features {
	names := splitList(last(f.params[ParamFields]))
	if len(names) == 0 {
		return f
	}

	var include, exclude []string
	for _, name := range names {
		if strings.HasPrefix(name, "-") {
			exclude = append(exclude, name[1:])
			continue
		}
		include = append(include, name)
	}

	idCol, hasID := f.idColumn()
	keepID := hasID && !slices.Contains(exclude, idCol.JSON)

	if len(include) == 0 {
		cols := make([]Column, 0, len(f.columns))
		for _, c := range f.columns {
			if slices.Contains(exclude, c.JSON) {
				continue
			}
			cols = append(cols, c)
		}
		f.columns = cols
		return f
	}

	cols := make([]Column, 0, len(include)+1)
	if keepID {
		cols = append(cols, idCol)
	}
	for _, name := range include {
		c, ok := f.schema.Lookup(name)
		if !ok || containsColumn(cols, c) {
			continue
		}
		cols = append(cols, c)
	}
	f.columns = cols

	return f
}

// Paginate applies page and limit. Missing or invalid values fall back to
// page 1 and limit 100; the limit never exceeds [MaxLimit].
func (f *Features) Paginate() *Features {
	f.page = NormalizeOrDefault(last(f.params[ParamPage]), DefaultPage)
	f.limit = min(NormalizeOrDefault(last(f.params[ParamLimit]), DefaultLimit), MaxLimit)
	if f.page-1 > math.MaxInt64/f.limit {
		f.page = DefaultPage
	}

	f.builder = f.builder.Limit(f.limit).Offset((f.page - 1) * f.limit)
	return f
}

// Columns returns the projected columns in output order.
func (f *Features) Columns() []Column {
	return slices.Clone(f.columns)
}

// Fields returns the JSON names of the projected columns.
func (f *Features) Fields() []string {
	out := make([]string, len(f.columns))
	for i, c := range f.columns {
		out[i] = c.JSON
	}
	return out
}

// Page and Limit report the pagination applied, zero before Paginate.
func (f *Features) Page() uint64  { return f.page }
func (f *Features) Limit() uint64 { return f.limit }

// Build returns the final statement, or the first value conversion failure.
func (f *Features) Build() (sq.SelectBuilder, error) {
	if len(f.errs) > 0 {
		return f.builder, f.errs[0]
	}

	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	if len(names) == 0 {
		names = append(names, f.schema.IDColumn())
	}

	return f.builder.Columns(names...), nil
}

func (f *Features) idColumn() (Column, bool) {
	for _, c := range f.schema.DefaultColumns() {
		if c.Name == f.schema.IDColumn() {
			return c, true
		}
	}
	return Column{}, false
}

// splitOperator splits "price[gte]" into "price" and "gte".
func splitOperator(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	return key[:open], key[open+1 : len(key)-1]
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func last(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func containsColumn(cols []Column, c Column) bool {
	return slices.ContainsFunc(cols, func(x Column) bool { return x.Name == c.Name })
}
