// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package apperr defines the operational error type: an error whose message
// is safe to show to API clients together with the HTTP status it maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

const maxStackDepth = 32

// Error is an operational error. Every value of this type is considered
// trusted: its message is returned to clients in every mode.
type Error struct {
	StatusCode int
	Message    string
	Details    any
	Err        error

	stack []uintptr
}

// New returns an operational error with the given status code and message.
func New(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
		stack:      callers(),
	}
}

// Newf is New with a formatted message.
func Newf(statusCode int, format string, args ...any) *Error {
	e := New(statusCode, fmt.Sprintf(format, args...))
	e.stack = callers()
	return e
}

// Wrap returns an operational error that keeps err as its cause.
func Wrap(err error, statusCode int, message string) *Error {
	e := New(statusCode, message)
	e.Err = err
	e.stack = callers()
	return e
}

// WithDetails attaches client-visible details to e.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is "failed" for client errors and "error" for everything else.
func (e *Error) Status() string {
	if e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError {
		return "failed"
	}
	return "error"
}

// Stack renders the call stack captured at construction time.
func (e *Error) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return sb.String()
}

// As returns the operational error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func callers() []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	// skip runtime.Callers, callers and the constructor
	n := runtime.Callers(3, pcs)
	return pcs[:n]
}
