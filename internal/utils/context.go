// Package utils provides general-purpose helpers used across the
// application: typed context keys, JWT issuing and parsing, token hashing,
// slugs, HTML stripping and JSON responses.
package utils

import (
	"context"

	"github.com/MKhiriev/go-natours/models"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the protect middleware stores the
// authenticated *models.User.
var UserCtxKey = contextKey("user")

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, user)
}

// GetUserFromContext retrieves the authenticated user stored by WithUser.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*models.User)
	return user, ok && user != nil
}
