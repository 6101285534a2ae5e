// Package enrich implements the ordered enrichment chain. Each stage reads
// the previous stage's full article set from the run state and writes an
// augmented copy back; the order is fixed because every stage depends on
// fields only its predecessor adds.
package enrich

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

const (
	maxEntitiesPerArticle = 20
	maxClaimsPerArticle   = 5
	minClaimWords         = 5
)

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	sentenceExpr   = regexp.MustCompile(`[.!?]+`)

	// Capitalized 2-3 word sequences: candidate person names.
	namePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})\b`)

	// Organization suffixes.
	orgPattern = regexp.MustCompile(`\b([A-Z][A-Za-z\s&]+(?:Inc\.|Corp\.|LLC|Co\.|Ltd\.|Organization|Agency|Department|Committee))`)
)

// Verbs whose presence marks a sentence as an assertion worth tracking.
var claimVerbs = []string{
	"said", "says", "stated", "announced", "reported", "confirmed",
	"revealed", "claimed", "argued", "warned", "predicted", "declared",
}

// Preprocessor computes clean text, entities, and claims for every collected
// article.
type Preprocessor struct {
	useNER bool
}

// NewPreprocessor builds the stage. With useNER the prose model categorizes
// persons and locations; organizations always come from the suffix
// heuristic, and a pure-regex path serves as fallback when the model cannot
// process a document.
func NewPreprocessor(useNER bool) *Preprocessor {
	return &Preprocessor{useNER: useNER}
}

// Name identifies the stage in logs.
func (p *Preprocessor) Name() string { return "preprocess" }

// Run converts the collected articles into preprocessed enriched articles.
// Individual articles that yield nothing are kept with empty extractions;
// the stage fails only when its entire input is empty.
func (p *Preprocessor) Run(_ context.Context, state *runstate.State) error {
	articles := state.Collected.Articles()
	if len(articles) == 0 {
		return fmt.Errorf("preprocess: %w", domain.ErrEmptyStage)
	}

	processed := make([]domain.EnrichedArticle, 0, len(articles))
	stats := domain.PreprocessStats{UsedNER: p.useNER}
	totalWords := 0

	for _, article := range articles {
		text := article.Text
		if text == "" {
			text = article.Description
		}
		cleanText := collapseWhitespace(text)

		entities := p.extractEntities(cleanText)
		claims := extractClaims(cleanText)

		enriched := domain.EnrichedArticle{
			Article:   article,
			CleanText: cleanText,
			Entities:  entities,
			Claims:    claims,
			WordCount: len(strings.Fields(cleanText)),
		}

		stats.TotalEntities += len(entities.All)
		stats.TotalClaims += len(claims)
		totalWords += enriched.WordCount
		processed = append(processed, enriched)
	}

	stats.TotalArticles = len(processed)
	if len(processed) > 0 {
		stats.AvgWordCount = float64(totalWords) / float64(len(processed))
	}

	state.Preprocessed = processed
	state.PreprocessStats = stats
	return nil
}

func (p *Preprocessor) extractEntities(text string) domain.Entities {
	if text == "" {
		return domain.Entities{}
	}

	var persons, locations []string
	usedModel := false
	if p.useNER {
		if doc, err := prose.NewDocument(text); err == nil {
			usedModel = true
			for _, ent := range doc.Entities() {
				switch ent.Label {
				case "PERSON":
					persons = append(persons, ent.Text)
				case "GPE", "LOC":
					locations = append(locations, ent.Text)
				}
			}
		}
	}
	if !usedModel {
		persons = namePattern.FindAllString(text, -1)
	}

	organizations := orgPattern.FindAllString(text, -1)

	persons = dedupeEntities(persons)
	organizations = dedupeEntities(organizations)
	locations = dedupeEntities(locations)

	all := make([]string, 0, len(persons)+len(organizations)+len(locations))
	all = append(all, persons...)
	all = append(all, organizations...)
	all = append(all, locations...)
	all = dedupeEntities(all)
	if len(all) > maxEntitiesPerArticle {
		all = all[:maxEntitiesPerArticle]
	}

	return domain.Entities{
		Persons:       persons,
		Organizations: organizations,
		Locations:     locations,
		All:           all,
	}
}

// dedupeEntities removes case-insensitive duplicates and too-short matches
// while preserving first-seen order.
func dedupeEntities(entities []string) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		e = strings.TrimSpace(e)
		if len(e) <= 3 {
			continue
		}
		key := strings.ToLower(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// extractClaims returns up to five sentences that contain an assertion verb
// and at least five words.
func extractClaims(text string) []string {
	var claims []string
	for _, sentence := range sentenceExpr.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if len(strings.Fields(sentence)) < minClaimWords {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, verb := range claimVerbs {
			if strings.Contains(lower, verb) {
				claims = append(claims, sentence)
				break
			}
		}
		if len(claims) >= maxClaimsPerArticle {
			break
		}
	}
	return claims
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}

// sortedKeys is shared by the aggregation stages for deterministic output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
