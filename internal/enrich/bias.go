package enrich

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// Fixed keyword sets for the bias signal counts.
var (
	leftKeywords = []string{
		"progressive", "reform", "equality", "climate", "healthcare",
		"workers", "regulation", "discrimination", "rights", "justice",
	}
	rightKeywords = []string{
		"conservative", "traditional", "freedom", "security", "border",
		"tax", "deregulation", "law and order", "values", "patriot",
	}
	emotionalWords = []string{
		"crisis", "disaster", "threat", "dangerous", "attack", "destroy",
		"scandal", "corrupt", "failing", "radical", "extreme",
	}
)

// tokenExpr matches the 4+ letter words the keyword ranking counts.
var tokenExpr = regexp.MustCompile(`\b[a-z]{4,}\b`)

var stopwords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {}, "have": {}, "been": {},
	"their": {}, "said": {}, "will": {}, "were": {}, "what": {}, "would": {},
	"there": {}, "about": {}, "which": {}, "when": {}, "they": {}, "more": {},
	"than": {}, "other": {}, "some": {}, "into": {}, "could": {}, "only": {},
}

const topKeywordCount = 20

// BiasAnalyzer counts political and emotional keyword signals per article,
// aggregates them per source, and ranks the corpus-wide top keywords.
type BiasAnalyzer struct{}

// NewBiasAnalyzer builds the stage.
func NewBiasAnalyzer() *BiasAnalyzer {
	return &BiasAnalyzer{}
}

// Name identifies the stage in logs.
func (b *BiasAnalyzer) Name() string { return "bias" }

// Run analyzes the sentiment-analyzed article set.
func (b *BiasAnalyzer) Run(_ context.Context, state *runstate.State) error {
	articles := state.Analyzed
	if len(articles) == 0 {
		return fmt.Errorf("bias analysis: %w", domain.ErrEmptyStage)
	}

	analyzed := make([]domain.EnrichedArticle, 0, len(articles))
	bySource := make(map[string]*domain.SourceBias)

	for _, article := range articles {
		textLower := strings.ToLower(article.CleanText)

		leftCount := countKeywords(textLower, leftKeywords)
		rightCount := countKeywords(textLower, rightKeywords)
		emotionalCount := countKeywords(textLower, emotionalWords)

		switch {
		case leftCount > rightCount:
			article.BiasDirection = domain.BiasLeft
		case rightCount > leftCount:
			article.BiasDirection = domain.BiasRight
		default:
			article.BiasDirection = domain.BiasNeutral
		}
		article.LeftKeywordCount = leftCount
		article.RightKeywordCount = rightCount
		article.EmotionalKeywordCount = emotionalCount

		key := normalizeSourceKey(article.Source)
		agg, ok := bySource[key]
		if !ok {
			agg = &domain.SourceBias{DisplayName: article.Source}
			bySource[key] = agg
		}
		agg.LeftSignals += leftCount
		agg.RightSignals += rightCount
		agg.EmotionalLanguage += emotionalCount
		agg.Articles++

		analyzed = append(analyzed, article)
	}

	state.BiasAnalyzed = analyzed
	state.BiasBySource = bySource
	state.TopKeywords = rankKeywords(analyzed)
	return nil
}

// countKeywords counts how many of the fixed keywords occur in the text.
// Presence counts once per keyword, not per occurrence.
func countKeywords(textLower string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(textLower, kw) {
			count++
		}
	}
	return count
}

// normalizeSourceKey lowers the display name and replaces spaces with
// underscores for cross-source comparison keys.
func normalizeSourceKey(source string) string {
	return strings.ReplaceAll(strings.ToLower(source), " ", "_")
}

// rankKeywords tokenizes all articles' combined clean text, drops stopwords,
// and returns the twenty most frequent words. Ties break alphabetically so
// the ranking is deterministic.
func rankKeywords(articles []domain.EnrichedArticle) []domain.Keyword {
	var combined strings.Builder
	for _, a := range articles {
		combined.WriteString(strings.ToLower(a.CleanText))
		combined.WriteByte(' ')
	}

	counts := make(map[string]int)
	for _, word := range tokenExpr.FindAllString(combined.String(), -1) {
		if _, skip := stopwords[word]; skip {
			continue
		}
		counts[word]++
	}

	ranked := make([]domain.Keyword, 0, len(counts))
	for _, word := range sortedKeys(counts) {
		ranked = append(ranked, domain.Keyword{Word: word, Count: counts[word]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topKeywordCount {
		ranked = ranked[:topKeywordCount]
	}
	return ranked
}
