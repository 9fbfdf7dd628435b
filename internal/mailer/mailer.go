// Package mailer delivers transactional email such as password reset links.
package mailer

import (
	"context"
	"errors"
)

// ErrSendingMail wraps every delivery failure.
var ErrSendingMail = errors.New("error sending mail")

// Message is a plain-text email to a single recipient.
type Message struct {
	To      string
	Subject string
	Body    string
}

//go:generate mockgen -source=mailer.go -destination=../mock/mailer_mock.go -package=mock

// Mailer sends a [Message].
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
