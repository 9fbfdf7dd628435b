// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-natours/internal/query"
)

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNotFound is returned when no row matches the requested id or filter
	// within the resource scope.
	ErrNotFound = errors.New("document not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL statement fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a statement fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRows is returned when scanning fails during multi-row
	// iteration.
	ErrScanningRows = errors.New("failed to scan rows")
)

// CastError reports a value that cannot be converted to its column type,
// for example a malformed id.
type CastError = query.CastError

// DuplicateError reports a unique constraint violation.
type DuplicateError struct {
	Fields []string
	Values []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s: %s", strings.Join(e.Fields, ", "), strings.Join(e.Values, ", "))
}

// parseDuplicateDetail extracts column names and values from a PostgreSQL
// unique violation detail such as `Key (email)=(a@b.io) already exists.`.
func parseDuplicateDetail(detail string) *DuplicateError {
	fields, values := parseKeyDetail(detail)
	return &DuplicateError{Fields: fields, Values: values}
}

// parseReferenceDetail turns a foreign key violation detail such as
// `Key (tour_id)=(5c88...) is not present in table "tours".` into a
// [CastError] naming the referencing field ("tour").
func parseReferenceDetail(detail string) *CastError {
	fields, values := parseKeyDetail(detail)
	if len(fields) == 0 || len(values) == 0 {
		return &CastError{Field: "reference", Value: detail}
	}

	return &CastError{Field: strings.TrimSuffix(fields[0], "_id"), Value: values[0]}
}

// parseKeyDetail splits the `Key (a, b)=(x, y)` part of a constraint
// violation detail into column names and values.
func parseKeyDetail(detail string) (fields, values []string) {
	open := strings.Index(detail, "(")
	mid := strings.Index(detail, ")=(")
	end := strings.LastIndex(detail, ")")
	if open < 0 || mid < open || end <= mid+2 {
		return nil, nil
	}

	for _, f := range strings.Split(detail[open+1:mid], ",") {
		fields = append(fields, strings.TrimSpace(f))
	}
	for _, v := range strings.Split(detail[mid+3:end], ",") {
		values = append(values, strings.TrimSpace(v))
	}

	return fields, values
}
