package feedsinfra

import (
	"context"
	"net/http"
	"time"
)

// Resolver maps an indirect article URL to its terminal URL.
type Resolver interface {
	Resolve(ctx context.Context, url string) string
}

// redirectResolver follows HTTP redirects with a bounded timeout. Resolution
// failure is not fetch failure: the original URL is returned so the article
// is kept rather than dropped.
type redirectResolver struct {
	client *http.Client
}

// NewRedirectResolver builds a resolver with its own short-deadline client.
func NewRedirectResolver(timeout time.Duration) Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &redirectResolver{client: &http.Client{Timeout: timeout}}
}

func (r *redirectResolver) Resolve(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", "newsdigest/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return rawURL
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return rawURL
	}
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return rawURL
}
