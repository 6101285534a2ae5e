package feeds

import (
	"context"
	"fmt"
	"time"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// Request carries all parameters for one fetch call.
type Request struct {
	Category    domain.Category
	MaxArticles int
}

// Result holds the diagnostic counters every fetch attempt reports. Article
// bodies are never returned here; accepted batches go straight into the run
// state accumulator so they are not duplicated in the response.
type Result struct {
	Source         string
	Category       domain.Category
	Collected      int
	TotalEntries   int // entries present in the feed document
	Checked        int // entries actually examined
	TooOld         int // rejected: outside the recency window
	DateParseFail  int // rejected: no usable published/updated timestamp
	MissingTitle   int // rejected: empty title
	SportsFiltered int // rejected: sports-term exclusion (technology only)
	CutoffUTC      time.Time
}

// Fetcher retrieves one source's feed for a category and appends the
// normalized articles to the run state accumulator. A failed retrieval is a
// recoverable condition reported through the error, never a panic; the
// accumulator is only touched on success.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, state *runstate.State, req Request) (Result, error)
}

// Registry keeps a mapping from fetcher names to their implementations.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{fetchers: map[string]Fetcher{}}
}

// Register adds or replaces a fetcher implementation.
func (r *Registry) Register(f Fetcher) {
	if r.fetchers == nil {
		r.fetchers = map[string]Fetcher{}
	}
	r.fetchers[f.Name()] = f
}

// Resolve returns a fetcher by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Fetcher, error) {
	if f, ok := r.fetchers[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fetcher %s is not registered", name)
}
