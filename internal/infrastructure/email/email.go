// Package email delivers the rendered digest to the configured recipients.
// Two transports exist: direct-credential SMTP and the token-based SendGrid
// API, with SMTP preferred when both are configured.
package email

import (
	"fmt"
	"strings"
	"time"

	"newsdigest/internal/config"
	"newsdigest/internal/ports"
)

// Subject line for the outgoing digest.
func subject(now time.Time) string {
	return fmt.Sprintf("Daily News Intelligence Digest - %s", now.Format("January 2, 2006"))
}

// Select picks the configured transport, preferring direct SMTP credentials
// over the API token.
func Select(cfg config.EmailConfig) (ports.Deliverer, error) {
	if cfg.SMTP.Address != "" && cfg.SMTP.AppPassword != "" {
		return NewSMTPDeliverer(cfg.SMTP), nil
	}
	if cfg.SendGrid.APIKey != "" {
		return NewSendGridDeliverer(cfg.SendGrid), nil
	}
	return nil, fmt.Errorf("no email transport configured: set SMTP credentials or a SendGrid API key")
}

// stripCodeFences removes markdown code-fence markup accidentally left
// around the rendered document.
func stripCodeFences(digest string) string {
	digest = strings.TrimSpace(digest)
	digest = strings.TrimPrefix(digest, "```html")
	digest = strings.TrimPrefix(digest, "```")
	digest = strings.TrimSuffix(digest, "```")
	return strings.TrimSpace(digest)
}
