package feedsinfra

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/domain"
	"newsdigest/internal/feeds"
	"newsdigest/internal/runstate"
)

const googleNewsBaseURL = "https://news.google.com"

// Topic search query strings, one per supported category.
var googleNewsQueries = map[domain.Category]string{
	domain.CategoryPolitics:   "US+politics+OR+election+OR+congress+OR+senate+OR+white+house",
	domain.CategoryTechnology: "technology+OR+tech+OR+AI+OR+cybersecurity+OR+software",
	domain.CategoryEurope:     "Europe+OR+European+Union+OR+Ukraine+war+OR+Russia+Ukraine+OR+NATO+OR+EU+OR+tragedy+Europe",
}

// GoogleNewsFetcher collects from Google News topic-search RSS feeds. Google
// News is an aggregator: entry titles carry a trailing " - <Source>" naming
// the underlying outlet, which becomes the article's source.
//
// The fetcher owns the run's reset rule: its first topic clears the shared
// accumulator before appending, so repeated runs are idempotent without a
// manual reset. All other topics and fetchers append only.
type GoogleNewsFetcher struct {
	client   *http.Client
	parser   *gofeed.Parser
	resolver Resolver
	baseURL  string
	first    domain.Category
	logger   *slog.Logger
}

var _ feeds.Fetcher = (*GoogleNewsFetcher)(nil)

// NewGoogleNewsFetcher wires an HTTP client and optional URL resolver. The
// first topic of the configured fetch plan triggers the accumulator reset.
func NewGoogleNewsFetcher(client *http.Client, resolver Resolver, firstTopic domain.Category, logger *slog.Logger) *GoogleNewsFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &GoogleNewsFetcher{
		client:   client,
		parser:   gofeed.NewParser(),
		resolver: resolver,
		baseURL:  googleNewsBaseURL,
		first:    firstTopic,
		logger:   logger,
	}
}

// Name identifies the fetcher inside the registry.
func (g *GoogleNewsFetcher) Name() string {
	return "google-news"
}

// Fetch retrieves one topic feed and appends the normalized batch.
func (g *GoogleNewsFetcher) Fetch(ctx context.Context, state *runstate.State, req feeds.Request) (feeds.Result, error) {
	if _, ok := googleNewsQueries[req.Category]; !ok {
		return feeds.Result{Source: "Google News", Category: req.Category},
			fmt.Errorf("google news: %w: %s", domain.ErrInvalidCategory, req.Category)
	}

	if req.Category == g.first {
		state.Collected.Reset()
		g.debug("cleared accumulator for fresh collection", "topic", req.Category)
	}

	feedURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en", g.baseURL, googleNewsQueries[req.Category])
	feed, err := fetchFeed(ctx, g.client, g.parser, "Google News", feedURL)
	if err != nil {
		return feeds.Result{Source: "Google News", Category: req.Category}, err
	}

	meta := sourceMeta{
		Source:           "Google News",
		Aggregator:       "Google News",
		Leaning:          "aggregated",
		Region:           "US",
		SplitTitleSuffix: true,
		FilterSports:     true,
		ScanMultiplier:   3,
	}

	batch, res := normalizeFeed(feed, meta, req, time.Now())

	if g.resolver != nil {
		for i := range batch {
			batch[i].URL = g.resolver.Resolve(ctx, batch[i].URL)
		}
	}

	if err := checkBatch("Google News", batch); err != nil {
		res.Collected = 0
		return res, err
	}

	state.Collected.Append(batch)
	g.debug("topic collected",
		"topic", req.Category,
		"collected", res.Collected,
		"too_old", res.TooOld,
		"date_parse_failed", res.DateParseFail,
		"missing_title", res.MissingTitle,
		"sports_filtered", res.SportsFiltered)

	return res, nil
}

func (g *GoogleNewsFetcher) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
