// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrMissingCredentials       = errors.New("email or password is missing")
	ErrWrongCredentials         = errors.New("incorrect email or password")
	ErrNotLoggedIn              = errors.New("no auth token provided")
	ErrTokenInvalid             = errors.New("token is invalid")
	ErrTokenExpired             = errors.New("token is expired")
	ErrTokenCreationFailed      = errors.New("error creating token")
	ErrUserNoLongerExists       = errors.New("token user no longer exists")
	ErrPasswordRecentlyChanged  = errors.New("password changed after token was issued")
	ErrForbidden                = errors.New("role is not allowed to perform this action")
	ErrNoUserWithEmail          = errors.New("no user with that email")
	ErrSendingResetEmail        = errors.New("error sending reset email")
	ErrResetTokenInvalid        = errors.New("reset token is invalid or expired")
	ErrWrongCurrentPassword     = errors.New("current password is wrong")
	ErrPasswordUpdateNotAllowed = errors.New("password fields are not allowed here")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
