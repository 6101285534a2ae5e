package feedsinfra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdigest/internal/domain"
	"newsdigest/internal/feeds"
	"newsdigest/internal/runstate"
)

// DirectFetcher collects from an outlet's own RSS feeds: fixed per-category
// URLs and fixed source metadata, always append-only.
type DirectFetcher struct {
	name     string
	meta     sourceMeta
	feedURLs map[domain.Category]string
	client   *http.Client
	parser   *gofeed.Parser
}

var _ feeds.Fetcher = (*DirectFetcher)(nil)

func newDirectFetcher(name string, meta sourceMeta, urls map[domain.Category]string, client *http.Client) *DirectFetcher {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	meta.ScanMultiplier = 2
	return &DirectFetcher{
		name:     name,
		meta:     meta,
		feedURLs: urls,
		client:   client,
		parser:   gofeed.NewParser(),
	}
}

// NewCNNFetcher collects CNN politics and technology feeds.
func NewCNNFetcher(client *http.Client) *DirectFetcher {
	return newDirectFetcher("cnn",
		sourceMeta{Source: "CNN", Leaning: "center-left", Region: "US"},
		map[domain.Category]string{
			domain.CategoryPolitics:   "http://rss.cnn.com/rss/cnn_allpolitics.rss",
			domain.CategoryTechnology: "http://rss.cnn.com/rss/cnn_tech.rss",
		}, client)
}

// NewFoxNewsFetcher collects Fox News politics and technology feeds.
func NewFoxNewsFetcher(client *http.Client) *DirectFetcher {
	return newDirectFetcher("fox-news",
		sourceMeta{Source: "Fox News", Leaning: "right", Region: "US"},
		map[domain.Category]string{
			domain.CategoryPolitics:   "https://moxie.foxnews.com/google-publisher/politics.xml",
			domain.CategoryTechnology: "https://moxie.foxnews.com/google-publisher/tech.xml",
		}, client)
}

// NewReutersFetcher collects Reuters politics and technology feeds.
func NewReutersFetcher(client *http.Client) *DirectFetcher {
	return newDirectFetcher("reuters",
		sourceMeta{Source: "Reuters", Leaning: "center-left", Region: "US"},
		map[domain.Category]string{
			domain.CategoryPolitics:   "https://www.reuters.com/rssfeed/politicsNews",
			domain.CategoryTechnology: "https://www.reuters.com/rssfeed/technologyNews",
		}, client)
}

// Name identifies the fetcher inside the registry.
func (d *DirectFetcher) Name() string {
	return d.name
}

// Fetch retrieves the category's feed and appends the normalized batch.
func (d *DirectFetcher) Fetch(ctx context.Context, state *runstate.State, req feeds.Request) (feeds.Result, error) {
	feedURL, ok := d.feedURLs[req.Category]
	if !ok {
		return feeds.Result{Source: d.meta.Source, Category: req.Category},
			fmt.Errorf("%s: %w: %s", d.name, domain.ErrInvalidCategory, req.Category)
	}

	feed, err := fetchFeed(ctx, d.client, d.parser, d.meta.Source, feedURL)
	if err != nil {
		return feeds.Result{Source: d.meta.Source, Category: req.Category}, err
	}

	batch, res := normalizeFeed(feed, d.meta, req, time.Now())

	if err := checkBatch(d.meta.Source, batch); err != nil {
		res.Collected = 0
		return res, err
	}

	state.Collected.Append(batch)
	return res, nil
}
