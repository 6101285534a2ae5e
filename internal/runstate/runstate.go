// Package runstate holds the mutable state shared by the stages of a single
// pipeline execution. A State is created empty at run start, handed by
// reference through every stage, and discarded at run end; it is never a
// process-wide singleton and is not safe to share across concurrent runs.
package runstate

import (
	"sync"
	"time"

	"newsdigest/internal/domain"
)

// Accumulator is the shared append-only store the fetchers write normalized
// articles into. Each fetcher's batch is appended as an atomic unit, existing
// entries are never dropped or reordered, and duplicates across sources are
// preserved: the credibility and bias stages operate over raw counts.
type Accumulator struct {
	mu       sync.Mutex
	articles []domain.Article
}

// Append adds one fetcher's batch atomically.
func (a *Accumulator) Append(batch []domain.Article) {
	if len(batch) == 0 {
		return
	}
	a.mu.Lock()
	a.articles = append(a.articles, batch...)
	a.mu.Unlock()
}

// Reset clears all collected articles. The aggregator fetcher calls this on
// its first topic of a run so re-runs start from a clean collection.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	a.articles = a.articles[:0]
	a.mu.Unlock()
}

// Articles returns a copy of everything collected so far.
func (a *Accumulator) Articles() []domain.Article {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.Article, len(a.articles))
	copy(out, a.articles)
	return out
}

// Len reports the current collection size.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.articles)
}

// State carries every stage's output for one run. Fields are filled in stage
// order; a nil slice means that stage did not run.
type State struct {
	StartedAt time.Time

	Collected Accumulator

	Preprocessed    []domain.EnrichedArticle
	PreprocessStats domain.PreprocessStats

	FactChecked      []domain.EnrichedArticle
	CredibilityStats domain.CredibilityStats

	FlaggedClaims []domain.FlaggedClaim
	ClaimStats    domain.ClaimStats

	Analyzed       []domain.EnrichedArticle
	SentimentStats domain.SentimentStats

	BiasAnalyzed []domain.EnrichedArticle
	BiasBySource map[string]*domain.SourceBias
	TopKeywords  []domain.Keyword

	Digest string

	DeliveredTo  []string
	DeliveredVia string
}

// New creates the empty state for one pipeline execution.
func New(start time.Time) *State {
	return &State{StartedAt: start.UTC()}
}

// BestArticles returns the most-enriched article set available, probing the
// stage outputs in priority order so a digest can still be produced when a
// later stage was skipped. Raw collected articles are lifted to enriched
// records with zero-valued analysis fields.
func (s *State) BestArticles() []domain.EnrichedArticle {
	for _, set := range [][]domain.EnrichedArticle{
		s.BiasAnalyzed,
		s.Analyzed,
		s.FactChecked,
		s.Preprocessed,
	} {
		if len(set) > 0 {
			return set
		}
	}
	return domain.Enrich(s.Collected.Articles())
}
