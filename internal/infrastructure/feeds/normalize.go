package feedsinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newsdigest/internal/domain"
	"newsdigest/internal/feeds"
)

// recencyWindow is the lookback beyond which a feed entry is excluded.
const recencyWindow = 48 * time.Hour

var whitespaceExpr = regexp.MustCompile(`\s+`)

// sourceMeta describes how one feed's raw entries map onto Articles.
type sourceMeta struct {
	Source     string
	Aggregator string
	Leaning    string
	Region     string

	// SplitTitleSuffix derives Source/OriginalSource from a trailing
	// " - <Source>" in the entry title (aggregator convention).
	SplitTitleSuffix bool

	// FilterSports rejects sports stories leaking into the technology
	// category.
	FilterSports bool

	// ScanMultiplier bounds how many entries are examined: MaxArticles times
	// this factor, so stale leading entries do not starve the collection.
	ScanMultiplier int
}

// entryTimestamp picks the best available timestamp for an entry, preferring
// the published field and falling back to updated. Entries with neither are
// rejected rather than defaulted to now: a defaulted timestamp would slip
// past the recency filter and corrupt the staleness guarantee.
func entryTimestamp(item *gofeed.Item) (time.Time, bool) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC(), true
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC(), true
	}
	return time.Time{}, false
}

// stripHTML reduces a description fragment to plain text.
func stripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseWhitespace(fragment)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}

// splitTitleSource splits the aggregator's "Title - Source" convention. When
// no suffix is present the title is returned untouched with an empty source.
func splitTitleSource(title string) (string, string) {
	idx := strings.LastIndex(title, " - ")
	if idx < 0 {
		return title, ""
	}
	name := strings.TrimSpace(title[idx+3:])
	rest := strings.TrimSpace(title[:idx])
	if name == "" || rest == "" {
		return title, ""
	}
	return rest, name
}

// normalizeFeed converts raw feed entries into canonical Articles, applying
// the recency window, title requirement, HTML stripping, and the optional
// aggregator/sports rules. It returns the accepted batch plus the diagnostic
// counters reported on every attempt.
func normalizeFeed(feed *gofeed.Feed, meta sourceMeta, req feeds.Request, now time.Time) ([]domain.Article, feeds.Result) {
	res := feeds.Result{
		Source:       meta.Source,
		Category:     req.Category,
		TotalEntries: len(feed.Items),
		CutoffUTC:    now.UTC().Add(-recencyWindow),
	}

	scanLimit := req.MaxArticles * meta.ScanMultiplier
	if meta.ScanMultiplier <= 0 {
		scanLimit = req.MaxArticles * 2
	}

	batch := make([]domain.Article, 0, req.MaxArticles)
	for _, item := range feed.Items {
		if res.Checked >= scanLimit || len(batch) >= req.MaxArticles {
			break
		}
		res.Checked++

		published, ok := entryTimestamp(item)
		if !ok {
			res.DateParseFail++
			continue
		}
		if published.Before(res.CutoffUTC) {
			res.TooOld++
			continue
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			res.MissingTitle++
			continue
		}

		source := meta.Source
		originalSource := ""
		if meta.SplitTitleSuffix {
			if rest, name := splitTitleSource(title); name != "" {
				title = rest
				source = name
				originalSource = name
			}
		}

		description := stripHTML(item.Description)
		if description == "" {
			description = stripHTML(item.Content)
		}

		if meta.FilterSports && req.Category == domain.CategoryTechnology {
			if isSportsStory(title + " " + description) {
				res.SportsFiltered++
				continue
			}
		}

		batch = append(batch, domain.Article{
			Title:          title,
			URL:            strings.TrimSpace(item.Link),
			Source:         source,
			OriginalSource: originalSource,
			Aggregator:     meta.Aggregator,
			Leaning:        meta.Leaning,
			Region:         meta.Region,
			Category:       req.Category,
			PublishedAt:    published,
			Description:    description,
			Text:           description,
		})
	}

	res.Collected = len(batch)
	return batch, res
}

// checkBatch verifies the accepted batch survives the JSON interchange
// format before it is stored. On failure the whole batch is discarded, never
// partially kept.
func checkBatch(source string, batch []domain.Article) error {
	if _, err := json.Marshal(batch); err != nil {
		return &domain.FetchError{Source: source, Kind: domain.FailureSerialization, Err: err}
	}
	return nil
}

// fetchFeed retrieves and parses one feed document.
func fetchFeed(ctx context.Context, client *http.Client, parser *gofeed.Parser, source, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{Source: source, Kind: domain.FailureNetwork, Err: err}
	}
	req.Header.Set("User-Agent", "newsdigest/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Source: source, Kind: domain.FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{
			Source: source,
			Kind:   domain.FailureNetwork,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, &domain.FetchError{Source: source, Kind: domain.FailureParse, Err: err}
	}
	if len(feed.Items) == 0 {
		return nil, &domain.FetchError{
			Source: source,
			Kind:   domain.FailureEmptyFeed,
			Err:    fmt.Errorf("feed %s has no entries", url),
		}
	}
	return feed, nil
}
