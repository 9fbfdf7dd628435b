package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles known to the authorization layer.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// DefaultPhoto is the avatar of users who never uploaded one.
const DefaultPhoto = "default.jpg"

// User represents an account entity used for authentication and authorization.
// Credential fields are never serialized.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Photo string    `json:"photo,omitempty"`
	Role  string    `json:"role"`

	// Password holds the bcrypt hash once the user is persisted.
	Password string `json:"-"`

	// PasswordChangedAt is stored one second before the actual change so that
	// a token issued right after the change is still accepted.
	PasswordChangedAt *time.Time `json:"-"`

	// PasswordResetToken is the hex SHA-256 of the token mailed to the user.
	PasswordResetToken *string `json:"-"`

	// PasswordResetExpires is a millisecond Unix epoch.
	PasswordResetExpires *int64 `json:"-"`

	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// ChangedPasswordAfter reports whether the password was changed after a token
// issued at issuedAt (second precision, as carried by the JWT iat claim).
func (u User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}

	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// UserSummary is the public projection attached to reviews.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Photo string    `json:"photo,omitempty"`
}

// SignupRequest is the body accepted by the signup endpoint.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// LoginRequest is the body accepted by the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest is the body accepted by the forgot-password endpoint.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// PasswordReset carries a new password and its confirmation.
type PasswordReset struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// PasswordUpdate is the body accepted by the update-my-password endpoint.
type PasswordUpdate struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ProfileUpdate lists the fields a user may change on their own account.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}
