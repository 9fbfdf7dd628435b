// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// errRouteNotDefined answers POST /users. Accounts are created by signup.
	errRouteNotDefined = errors.New("route is not defined")

	// errTooManyRequests is returned by the rate limiter once an IP used up
	// its window.
	errTooManyRequests = errors.New("too many requests")

	// errNoIdentity means a handler behind protect found no user in the
	// request context.
	errNoIdentity = errors.New("no authenticated user in request context")
)
