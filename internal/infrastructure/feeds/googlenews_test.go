package feedsinfra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsdigest/internal/domain"
	"newsdigest/internal/feeds"
	"newsdigest/internal/runstate"
)

func rssDocument(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test feed</title>%s</channel></rss>`, items)
}

func rssItem(title, link string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate></item>`,
		title, link, published.Format(time.RFC1123Z))
}

func newsServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleNewsFetchCollectsAndSplitsSources(t *testing.T) {
	t.Parallel()

	now := time.Now()
	srv := newsServer(t, rssDocument(
		rssItem("Senate vote today - Reuters", "https://example.com/a", now.Add(-time.Hour))+
			rssItem("Election results - CNN", "https://example.com/b", now.Add(-2*time.Hour)),
	))

	g := NewGoogleNewsFetcher(srv.Client(), nil, domain.CategoryPolitics, nil)
	g.baseURL = srv.URL

	state := runstate.New(now)
	res, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryPolitics,
		MaxArticles: 5,
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if res.Collected != 2 {
		t.Fatalf("expected 2 collected, got %+v", res)
	}

	got := state.Collected.Articles()
	if len(got) != 2 {
		t.Fatalf("expected 2 articles in state, got %d", len(got))
	}
	if got[0].Source != "Reuters" || got[0].Title != "Senate vote today" {
		t.Fatalf("aggregator title not split: %+v", got[0])
	}
	if got[0].Aggregator != "Google News" {
		t.Fatalf("missing aggregator tag: %+v", got[0])
	}
}

func TestGoogleNewsFetchResetsOnFirstTopicOnly(t *testing.T) {
	t.Parallel()

	now := time.Now()
	srv := newsServer(t, rssDocument(
		rssItem("Politics story - AP", "https://example.com/a", now.Add(-time.Hour)),
	))

	g := NewGoogleNewsFetcher(srv.Client(), nil, domain.CategoryPolitics, nil)
	g.baseURL = srv.URL

	state := runstate.New(now)
	state.Collected.Append([]domain.Article{{Title: "leftover from previous run"}})

	if _, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryTechnology,
		MaxArticles: 5,
	}); err != nil {
		t.Fatalf("technology fetch failed: %v", err)
	}
	if state.Collected.Len() != 2 {
		t.Fatalf("non-first topic must not reset, got %d articles", state.Collected.Len())
	}

	if _, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryPolitics,
		MaxArticles: 5,
	}); err != nil {
		t.Fatalf("politics fetch failed: %v", err)
	}
	got := state.Collected.Articles()
	if len(got) != 1 || got[0].Title != "Politics story" {
		t.Fatalf("first topic must reset before appending, got %+v", got)
	}
}

func TestGoogleNewsFetchRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	g := NewGoogleNewsFetcher(nil, nil, domain.CategoryPolitics, nil)

	state := runstate.New(time.Now())
	_, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.Category("sports"),
		MaxArticles: 5,
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestGoogleNewsFetchReportsNetworkFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	g := NewGoogleNewsFetcher(srv.Client(), nil, domain.CategoryPolitics, nil)
	g.baseURL = srv.URL

	state := runstate.New(time.Now())
	_, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryPolitics,
		MaxArticles: 5,
	})

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Kind != domain.FailureNetwork {
		t.Fatalf("expected network failure kind, got %s", fetchErr.Kind)
	}
	if state.Collected.Len() != 0 {
		t.Fatalf("failed fetch must not touch the accumulator")
	}
}

func TestGoogleNewsFetchReportsEmptyFeed(t *testing.T) {
	t.Parallel()

	srv := newsServer(t, rssDocument(""))

	g := NewGoogleNewsFetcher(srv.Client(), nil, domain.CategoryPolitics, nil)
	g.baseURL = srv.URL

	state := runstate.New(time.Now())
	_, err := g.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryTechnology,
		MaxArticles: 5,
	})

	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.Kind != domain.FailureEmptyFeed {
		t.Fatalf("expected empty-feed kind, got %s", fetchErr.Kind)
	}
}

func TestDirectFetcherKeepsConfiguredSource(t *testing.T) {
	t.Parallel()

	now := time.Now()
	srv := newsServer(t, rssDocument(
		rssItem("Hearing recap - with a dash", "https://example.com/a", now.Add(-time.Hour)),
	))

	d := newDirectFetcher("cnn",
		sourceMeta{Source: "CNN", Leaning: "center-left", Region: "US"},
		map[domain.Category]string{domain.CategoryPolitics: srv.URL},
		srv.Client())

	state := runstate.New(now)
	res, err := d.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryPolitics,
		MaxArticles: 5,
	})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if res.Collected != 1 {
		t.Fatalf("expected 1 collected, got %+v", res)
	}

	got := state.Collected.Articles()[0]
	if got.Source != "CNN" {
		t.Fatalf("direct feeds must keep the configured source, got %q", got.Source)
	}
	if got.Title != "Hearing recap - with a dash" {
		t.Fatalf("direct feeds must not split titles, got %q", got.Title)
	}
	if got.Leaning != "center-left" {
		t.Fatalf("leaning lost: %+v", got)
	}
}

func TestDirectFetcherRejectsUnsupportedCategory(t *testing.T) {
	t.Parallel()

	d := NewCNNFetcher(nil)

	state := runstate.New(time.Now())
	_, err := d.Fetch(context.Background(), state, feeds.Request{
		Category:    domain.CategoryEurope,
		MaxArticles: 5,
	})
	if !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
