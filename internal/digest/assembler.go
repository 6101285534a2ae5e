// Package digest folds the run's most-enriched article set and aggregate
// statistics into one self-contained HTML document.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"newsdigest/internal/domain"
	"newsdigest/internal/ports"
	"newsdigest/internal/runstate"
)

// Section display titles in their fixed render order.
var categoryTitles = map[domain.Category]string{
	domain.CategoryPolitics:   "US Politics",
	domain.CategoryTechnology: "Technology",
	domain.CategoryEurope:     "Europe & International",
}

var categoryOrder = []domain.Category{
	domain.CategoryPolitics,
	domain.CategoryTechnology,
	domain.CategoryEurope,
}

// Assembler renders the daily digest document.
type Assembler struct{}

var _ ports.Assembler = (*Assembler)(nil)

// NewAssembler builds the assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

type articleCard struct {
	Title       string
	Source      string
	Summary     string
	Sentiment   string
	Credibility string
	Entities    string
	URL         string
}

type categorySection struct {
	Title    string
	Count    int
	Articles []articleCard
}

type sentimentSplit struct {
	Category string
	Positive int
	Negative int
	Neutral  int
}

type sourceSummary struct {
	DisplayName  string
	Articles     int
	AvgLeft      float64
	AvgRight     float64
	AvgEmotional float64
}

type digestData struct {
	Date            string
	TotalArticles   int
	Sections        []categorySection
	KeyThemes       string
	Credibility     domain.CredibilityStats
	Claims          domain.ClaimStats
	Flagged         []domain.FlaggedClaim
	SentimentSplits []sentimentSplit
	Sources         []sourceSummary
	TopKeywords     string
	SourceDiversity int
	OriginalSources string
}

// Assemble renders the digest from the best available article set. It falls
// back stage by stage down to the raw collected articles, so a digest can
// still be produced when later stages were skipped.
func (a *Assembler) Assemble(state *runstate.State, now time.Time) (string, error) {
	articles := state.BestArticles()
	if len(articles) == 0 {
		return "", fmt.Errorf("assemble digest: %w", domain.ErrEmptyStage)
	}

	data := digestData{
		Date:          now.UTC().Format("2006-01-02"),
		TotalArticles: len(articles),
		Sections:      buildSections(articles),
		KeyThemes:     keywordLine(state.TopKeywords, 5),
		Credibility:   state.CredibilityStats,
		Claims:        state.ClaimStats,
		Flagged:       topFlagged(state.FlaggedClaims, 3),
		TopKeywords:   keywordLine(state.TopKeywords, 10),
	}
	data.SentimentSplits = buildSentimentSplits(articles)
	data.Sources = buildSourceSummaries(state.BiasBySource)
	data.SourceDiversity, data.OriginalSources = originalSources(articles)

	var out strings.Builder
	if err := digestTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return out.String(), nil
}

// buildSections groups every article exactly once by its category field, so
// per-section counts always sum to the overall total.
func buildSections(articles []domain.EnrichedArticle) []categorySection {
	grouped := make(map[domain.Category][]articleCard)
	var extraOrder []domain.Category
	for _, article := range articles {
		cat := article.Category
		if _, known := categoryTitles[cat]; !known {
			if _, seen := grouped[cat]; !seen {
				extraOrder = append(extraOrder, cat)
			}
		}
		grouped[cat] = append(grouped[cat], buildCard(article))
	}

	var sections []categorySection
	appendSection := func(cat domain.Category) {
		cards := grouped[cat]
		if len(cards) == 0 {
			return
		}
		title, ok := categoryTitles[cat]
		if !ok {
			title = string(cat)
			if title == "" {
				title = "Uncategorized"
			}
		}
		sections = append(sections, categorySection{Title: title, Count: len(cards), Articles: cards})
	}
	for _, cat := range categoryOrder {
		appendSection(cat)
	}
	for _, cat := range extraOrder {
		appendSection(cat)
	}
	return sections
}

func buildCard(article domain.EnrichedArticle) articleCard {
	card := articleCard{
		Title:   article.Title,
		Source:  article.Source,
		Summary: truncate(article.Description, 280),
		URL:     article.URL,
	}
	if article.SentimentCategory != "" {
		card.Sentiment = fmt.Sprintf("%s (%.3f)", article.SentimentCategory, article.SentimentPolarity)
	}
	if article.CredibilityScore > 0 {
		card.Credibility = fmt.Sprintf("%d/100", article.CredibilityScore)
	}
	if len(article.Entities.All) > 0 {
		sample := article.Entities.All
		if len(sample) > 5 {
			sample = sample[:5]
		}
		card.Entities = strings.Join(sample, ", ")
	}
	return card
}

func buildSentimentSplits(articles []domain.EnrichedArticle) []sentimentSplit {
	counts := make(map[domain.Category]*sentimentSplit)
	for _, article := range articles {
		if article.SentimentCategory == "" {
			continue
		}
		split, ok := counts[article.Category]
		if !ok {
			title := categoryTitles[article.Category]
			if title == "" {
				title = string(article.Category)
			}
			split = &sentimentSplit{Category: title}
			counts[article.Category] = split
		}
		switch article.SentimentCategory {
		case domain.SentimentPositive:
			split.Positive++
		case domain.SentimentNegative:
			split.Negative++
		default:
			split.Neutral++
		}
	}

	var splits []sentimentSplit
	for _, cat := range categoryOrder {
		if split, ok := counts[cat]; ok {
			splits = append(splits, *split)
		}
	}
	return splits
}

func buildSourceSummaries(bySource map[string]*domain.SourceBias) []sourceSummary {
	keys := make([]string, 0, len(bySource))
	for k := range bySource {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	summaries := make([]sourceSummary, 0, len(keys))
	for _, key := range keys {
		data := bySource[key]
		n := data.Articles
		if n == 0 {
			n = 1
		}
		summaries = append(summaries, sourceSummary{
			DisplayName:  data.DisplayName,
			Articles:     data.Articles,
			AvgLeft:      round2(float64(data.LeftSignals) / float64(n)),
			AvgRight:     round2(float64(data.RightSignals) / float64(n)),
			AvgEmotional: round2(float64(data.EmotionalLanguage) / float64(n)),
		})
	}
	return summaries
}

// originalSources counts the distinct underlying outlets behind aggregator
// entries, a proxy for source diversity.
func originalSources(articles []domain.EnrichedArticle) (int, string) {
	seen := make(map[string]struct{})
	for _, article := range articles {
		if article.Aggregator == "" || article.OriginalSource == "" {
			continue
		}
		seen[article.OriginalSource] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return len(names), strings.Join(names, ", ")
}

func topFlagged(flagged []domain.FlaggedClaim, limit int) []domain.FlaggedClaim {
	if len(flagged) <= limit {
		return flagged
	}
	return flagged[:limit]
}

func keywordLine(keywords []domain.Keyword, limit int) string {
	if len(keywords) == 0 {
		return ""
	}
	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	words := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		words = append(words, kw.Word)
	}
	return strings.Join(words, ", ")
}

// truncate shortens s to at most maxLen bytes, backing up to a rune boundary
// so the cut never leaves invalid UTF-8.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
