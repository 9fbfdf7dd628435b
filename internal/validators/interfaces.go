// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators enforces the per-resource field rules of tours, users,
// reviews and the auth request bodies.
//
// Rules are registered on a go-playground validator keyed by Go field name,
// so the models stay free of validation tags. Failures are reported as a
// single [ValidationError] listing one human-readable message per field.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally restricts
	// validation to the named Go struct fields.
	Validate(ctx context.Context, v any, fields ...string) error
}
