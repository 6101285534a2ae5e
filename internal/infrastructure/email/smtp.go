package email

import (
	"context"
	"time"

	gomail "gopkg.in/gomail.v2"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

// SMTPDeliverer sends the digest through an SMTP server using a sender
// address and app password.
type SMTPDeliverer struct {
	cfg  config.SMTPConfig
	send func(m *gomail.Message) error
}

var _ ports.Deliverer = (*SMTPDeliverer)(nil)

// NewSMTPDeliverer wires the SMTP transport from config.
func NewSMTPDeliverer(cfg config.SMTPConfig) *SMTPDeliverer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Address, cfg.AppPassword)
	return &SMTPDeliverer{
		cfg:  cfg,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

// Name identifies the transport in logs and delivery receipts.
func (d *SMTPDeliverer) Name() string { return "smtp" }

// Deliver sends one HTML message to all recipients.
func (d *SMTPDeliverer) Deliver(_ context.Context, digest string, recipients []string) error {
	if len(recipients) == 0 {
		return domain.ErrMissingRecipient
	}
	body := stripCodeFences(digest)
	if body == "" {
		return domain.ErrMissingDigest
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.Address)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject(time.Now()))
	m.SetBody("text/html", body)

	if err := d.send(m); err != nil {
		return &domain.TransportError{Transport: d.Name(), Detail: err}
	}
	return nil
}
