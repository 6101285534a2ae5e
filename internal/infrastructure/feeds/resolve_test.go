package feedsinfra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRedirectResolverFollowsRedirects(t *testing.T) {
	t.Parallel()

	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(final.Close)

	hop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/story", http.StatusFound)
	}))
	t.Cleanup(hop.Close)

	r := NewRedirectResolver(5 * time.Second)
	got := r.Resolve(context.Background(), hop.URL)
	if got != final.URL+"/story" {
		t.Fatalf("expected terminal URL %q, got %q", final.URL+"/story", got)
	}
}

func TestRedirectResolverKeepsOriginalOnFailure(t *testing.T) {
	t.Parallel()

	r := NewRedirectResolver(500 * time.Millisecond)

	original := "http://127.0.0.1:1/unreachable"
	if got := r.Resolve(context.Background(), original); got != original {
		t.Fatalf("expected original URL on failure, got %q", got)
	}

	if got := r.Resolve(context.Background(), ":not a url"); got != ":not a url" {
		t.Fatalf("expected original string on bad URL, got %q", got)
	}
}
