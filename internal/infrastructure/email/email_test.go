package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	gomail "gopkg.in/gomail.v2"

	"newsdigest/internal/config"
	"newsdigest/internal/domain"
)

func TestSelectPrefersSMTP(t *testing.T) {
	t.Parallel()

	cfg := config.EmailConfig{
		SMTP:     config.SMTPConfig{Host: "smtp.gmail.com", Port: 465, Address: "a@example.com", AppPassword: "secret"},
		SendGrid: config.SendGridConfig{APIKey: "SG.token"},
	}
	d, err := Select(cfg)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if d.Name() != "smtp" {
		t.Fatalf("expected smtp transport, got %q", d.Name())
	}
}

func TestSelectFallsBackToSendGrid(t *testing.T) {
	t.Parallel()

	cfg := config.EmailConfig{SendGrid: config.SendGridConfig{APIKey: "SG.token", Sender: "digest@example.com"}}
	d, err := Select(cfg)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if d.Name() != "sendgrid" {
		t.Fatalf("expected sendgrid transport, got %q", d.Name())
	}
}

func TestSelectErrorsWithoutTransport(t *testing.T) {
	t.Parallel()

	if _, err := Select(config.EmailConfig{}); err == nil {
		t.Fatalf("expected error with no transport configured")
	}
}

func TestNewSMTPDelivererWiresDialer(t *testing.T) {
	t.Parallel()

	d := NewSMTPDeliverer(config.SMTPConfig{
		Host: "smtp.gmail.com", Port: 465,
		Address: "a@example.com", AppPassword: "secret",
	})

	if d.send == nil {
		t.Fatalf("constructor must wire a send function")
	}
	if d.Name() != "smtp" {
		t.Fatalf("unexpected transport name: %q", d.Name())
	}
}

func TestSMTPDeliverValidations(t *testing.T) {
	t.Parallel()

	d := &SMTPDeliverer{send: func(*gomail.Message) error { return nil }}

	if err := d.Deliver(context.Background(), "<html></html>", nil); !errors.Is(err, domain.ErrMissingRecipient) {
		t.Fatalf("expected ErrMissingRecipient, got %v", err)
	}
	if err := d.Deliver(context.Background(), "```html\n```", []string{"a@example.com"}); !errors.Is(err, domain.ErrMissingDigest) {
		t.Fatalf("expected ErrMissingDigest for fence-only digest, got %v", err)
	}
}

func TestSMTPDeliverSendsStrippedBody(t *testing.T) {
	t.Parallel()

	var sent *gomail.Message
	d := &SMTPDeliverer{
		cfg:  config.SMTPConfig{Address: "digest@example.com"},
		send: func(m *gomail.Message) error { sent = m; return nil },
	}

	digest := "```html\n<html><body>report</body></html>\n```"
	if err := d.Deliver(context.Background(), digest, []string{"a@example.com", "b@example.com"}); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if sent == nil {
		t.Fatalf("send function never called")
	}

	var body strings.Builder
	if _, err := sent.WriteTo(&body); err != nil {
		t.Fatalf("serialize message: %v", err)
	}
	raw := body.String()
	if strings.Contains(raw, "```") {
		t.Fatalf("code fences leaked into message body")
	}
	if !strings.Contains(raw, "To: a@example.com, b@example.com") {
		t.Fatalf("recipient header missing:\n%s", raw)
	}
}

func TestSMTPDeliverWrapsTransportFailure(t *testing.T) {
	t.Parallel()

	d := &SMTPDeliverer{send: func(*gomail.Message) error { return fmt.Errorf("dial tcp: refused") }}

	err := d.Deliver(context.Background(), "<html></html>", []string{"a@example.com"})
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Transport != "smtp" {
		t.Fatalf("unexpected transport name: %q", transportErr.Transport)
	}
}

func TestSendGridDeliverSuccess(t *testing.T) {
	t.Parallel()

	var sent *mail.SGMailV3
	d := &SendGridDeliverer{
		cfg: config.SendGridConfig{Sender: "digest@example.com"},
		send: func(m *mail.SGMailV3) (*rest.Response, error) {
			sent = m
			return &rest.Response{StatusCode: 202}, nil
		},
	}

	if err := d.Deliver(context.Background(), "<html>report</html>", []string{"a@example.com", "b@example.com"}); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}
	if sent == nil {
		t.Fatalf("send function never called")
	}
	if len(sent.Personalizations) != 1 || len(sent.Personalizations[0].To) != 2 {
		t.Fatalf("expected one personalization with 2 recipients, got %+v", sent.Personalizations)
	}
	if !strings.HasPrefix(sent.Subject, "Daily News Intelligence Digest - ") {
		t.Fatalf("unexpected subject: %q", sent.Subject)
	}
}

func TestSendGridDeliverRejectsErrorStatus(t *testing.T) {
	t.Parallel()

	d := &SendGridDeliverer{
		send: func(*mail.SGMailV3) (*rest.Response, error) {
			return &rest.Response{StatusCode: 401, Body: "unauthorized"}, nil
		},
	}

	err := d.Deliver(context.Background(), "<html></html>", []string{"a@example.com"})
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transportErr.Transport != "sendgrid" {
		t.Fatalf("unexpected transport name: %q", transportErr.Transport)
	}
}

func TestStripCodeFences(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"```html\n<p>x</p>\n```", "<p>x</p>"},
		{"```\n<p>x</p>\n```", "<p>x</p>"},
		{"<p>x</p>", "<p>x</p>"},
		{"  <p>x</p>  ", "<p>x</p>"},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Fatalf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSubjectFormat(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	if got := subject(now); got != "Daily News Intelligence Digest - March 10, 2026" {
		t.Fatalf("unexpected subject: %q", got)
	}
}
