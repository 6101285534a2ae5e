package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
)

// SendGridDeliverer sends the digest through the SendGrid API with a bearer
// token. Used when no direct SMTP credentials are configured.
type SendGridDeliverer struct {
	cfg  config.SendGridConfig
	send func(m *mail.SGMailV3) (*rest.Response, error)
}

var _ ports.Deliverer = (*SendGridDeliverer)(nil)

// NewSendGridDeliverer wires the API transport from config.
func NewSendGridDeliverer(cfg config.SendGridConfig) *SendGridDeliverer {
	client := sendgrid.NewSendClient(cfg.APIKey)
	return &SendGridDeliverer{cfg: cfg, send: client.Send}
}

// Name identifies the transport in logs and delivery receipts.
func (d *SendGridDeliverer) Name() string { return "sendgrid" }

// Deliver sends one HTML message to all recipients.
func (d *SendGridDeliverer) Deliver(_ context.Context, digest string, recipients []string) error {
	if len(recipients) == 0 {
		return domain.ErrMissingRecipient
	}
	body := stripCodeFences(digest)
	if body == "" {
		return domain.ErrMissingDigest
	}

	from := mail.NewEmail("News Digest", d.cfg.Sender)
	personalization := mail.NewPersonalization()
	for _, rcpt := range recipients {
		personalization.AddTos(mail.NewEmail("", rcpt))
	}

	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject(time.Now())
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/html", body))

	resp, err := d.send(message)
	if err != nil {
		return &domain.TransportError{Transport: d.Name(), Detail: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &domain.TransportError{
			Transport: d.Name(),
			Detail:    fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body),
		}
	}
	return nil
}
