package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
)

const sendTimeout = 15 * time.Second

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg    config.Mail
	logger *logger.Logger
}

// NewSMTPMailer returns an SMTP-backed Mailer.
func NewSMTPMailer(cfg config.Mail, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: log}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mail := gomail.NewMsg()
	if err := mail.From(m.cfg.From); err != nil {
		return fmt.Errorf("%w: from: %w", ErrSendingMail, err)
	}
	if err := mail.To(msg.To); err != nil {
		return fmt.Errorf("%w: to: %w", ErrSendingMail, err)
	}
	mail.Subject(msg.Subject)
	mail.SetBodyString(gomail.TypeTextPlain, msg.Body)

	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(sendTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: client: %w", ErrSendingMail, err)
	}

	if err = client.DialAndSendWithContext(ctx, mail); err != nil {
		return fmt.Errorf("%w: %w", ErrSendingMail, err)
	}

	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}
