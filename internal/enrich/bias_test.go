package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

func TestBiasAnalyzerDirection(t *testing.T) {
	t.Parallel()

	state := runstate.New(time.Now())
	state.Analyzed = []domain.EnrichedArticle{
		{
			Article:   domain.Article{Title: "left", Source: "Outlet A"},
			CleanText: "progressive reform of healthcare and workers rights",
		},
		{
			Article:   domain.Article{Title: "right", Source: "Outlet B"},
			CleanText: "conservative values on border security and tax freedom",
		},
		{
			Article:   domain.Article{Title: "balanced", Source: "Outlet C"},
			CleanText: "reform proposals weighed against security spending today",
		},
	}

	if err := NewBiasAnalyzer().Run(context.Background(), state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := state.BiasAnalyzed
	if got[0].BiasDirection != domain.BiasLeft {
		t.Fatalf("expected left direction, got %+v", got[0])
	}
	if got[1].BiasDirection != domain.BiasRight {
		t.Fatalf("expected right direction, got %+v", got[1])
	}
	if got[2].BiasDirection != domain.BiasNeutral {
		t.Fatalf("ties must be neutral, got %+v", got[2])
	}
}

func TestBiasAnalyzerCountsPresenceNotFrequency(t *testing.T) {
	t.Parallel()

	count := countKeywords("climate climate climate reform", leftKeywords)
	if count != 2 {
		t.Fatalf("expected 2 distinct keywords, got %d", count)
	}
}

func TestBiasAnalyzerAggregatesPerSource(t *testing.T) {
	t.Parallel()

	state := runstate.New(time.Now())
	state.Analyzed = []domain.EnrichedArticle{
		{
			Article:   domain.Article{Title: "one", Source: "Fox News"},
			CleanText: "border security crisis deepens",
		},
		{
			Article:   domain.Article{Title: "two", Source: "Fox News"},
			CleanText: "tax freedom under threat",
		},
	}

	if err := NewBiasAnalyzer().Run(context.Background(), state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	agg, ok := state.BiasBySource["fox_news"]
	if !ok {
		t.Fatalf("expected normalized fox_news key, got %+v", state.BiasBySource)
	}
	if agg.Articles != 2 {
		t.Fatalf("expected 2 articles aggregated, got %+v", agg)
	}
	if agg.RightSignals != 4 {
		t.Fatalf("expected 4 right signals (border+security, tax+freedom), got %+v", agg)
	}
	if agg.EmotionalLanguage != 2 {
		t.Fatalf("expected 2 emotional signals (crisis, threat), got %+v", agg)
	}
	if agg.DisplayName != "Fox News" {
		t.Fatalf("display name lost: %+v", agg)
	}
}

func TestRankKeywords(t *testing.T) {
	t.Parallel()

	articles := []domain.EnrichedArticle{
		{CleanText: "election election election budget budget senate"},
		{CleanText: "election budget vote"},
	}

	ranked := rankKeywords(articles)
	if len(ranked) < 3 {
		t.Fatalf("expected at least 3 keywords, got %+v", ranked)
	}
	if ranked[0].Word != "election" || ranked[0].Count != 4 {
		t.Fatalf("expected election first with count 4, got %+v", ranked[0])
	}
	if ranked[1].Word != "budget" || ranked[1].Count != 3 {
		t.Fatalf("expected budget second with count 3, got %+v", ranked[1])
	}

	// Short words are excluded by the 4-letter minimum.
	for _, kw := range ranked {
		if len(kw.Word) < 4 {
			t.Fatalf("short word leaked into ranking: %+v", kw)
		}
	}
}

func TestRankKeywordsSkipsStopwordsAndCaps(t *testing.T) {
	t.Parallel()

	text := "that this with from have been said will were what would about election"
	ranked := rankKeywords([]domain.EnrichedArticle{{CleanText: text}})

	for _, kw := range ranked {
		if _, isStop := stopwords[kw.Word]; isStop {
			t.Fatalf("stopword leaked into ranking: %+v", kw)
		}
	}
	if len(ranked) != 1 || ranked[0].Word != "election" {
		t.Fatalf("expected only election to survive, got %+v", ranked)
	}
	if len(ranked) > topKeywordCount {
		t.Fatalf("ranking exceeds the cap: %d", len(ranked))
	}
}

func TestBiasAnalyzerFailsOnEmptyInput(t *testing.T) {
	t.Parallel()

	state := runstate.New(time.Now())
	err := NewBiasAnalyzer().Run(context.Background(), state)
	if !errors.Is(err, domain.ErrEmptyStage) {
		t.Fatalf("expected ErrEmptyStage, got %v", err)
	}
}
