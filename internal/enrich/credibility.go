package enrich

import (
	"context"
	"fmt"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// unknownSource is the key every unlisted source display name maps to.
const unknownSource = "Unknown"

// sourceCredibility is the immutable reference table keyed by source display
// name (case-sensitive exact match).
var sourceCredibility = map[string]domain.SourceCredibility{
	// High credibility (80+)
	"NPR":                     {CredibilityScore: 85, PoliticalBias: "center-left", BiasScore: 3, FactAccuracy: "high", Notes: "Public broadcaster with strong fact-checking standards"},
	"BBC":                     {CredibilityScore: 88, PoliticalBias: "center", BiasScore: 2, FactAccuracy: "very high", Notes: "International public broadcaster with rigorous editorial standards"},
	"Reuters":                 {CredibilityScore: 90, PoliticalBias: "center", BiasScore: 1, FactAccuracy: "very high", Notes: "International news agency focused on factual reporting"},
	"Associated Press":        {CredibilityScore: 90, PoliticalBias: "center", BiasScore: 1, FactAccuracy: "very high", Notes: "Cooperative news agency with high editorial standards"},
	"AP":                      {CredibilityScore: 90, PoliticalBias: "center", BiasScore: 1, FactAccuracy: "very high", Notes: "Associated Press - high editorial standards"},
	"The Wall Street Journal": {CredibilityScore: 82, PoliticalBias: "center-right", BiasScore: 3, FactAccuracy: "high", Notes: "Business-focused with strong reporting (opinion pages lean right)"},
	"Financial Times":         {CredibilityScore: 80, PoliticalBias: "center", BiasScore: 2, FactAccuracy: "high", Notes: "International business newspaper with strong economic analysis"},

	// Medium-high credibility (70-79)
	"The New York Times":  {CredibilityScore: 78, PoliticalBias: "center-left", BiasScore: 4, FactAccuracy: "high", Notes: "Major newspaper with thorough reporting; some editorial lean"},
	"The Washington Post": {CredibilityScore: 76, PoliticalBias: "center-left", BiasScore: 4, FactAccuracy: "high", Notes: "Strong investigative journalism; editorial lean"},
	"CNN":                 {CredibilityScore: 72, PoliticalBias: "center-left", BiasScore: 4, FactAccuracy: "generally factual", Notes: "Cable news network with center-left editorial perspective"},
	"The Guardian":        {CredibilityScore: 74, PoliticalBias: "left", BiasScore: 5, FactAccuracy: "generally factual", Notes: "British newspaper with progressive editorial stance"},
	"Politico":            {CredibilityScore: 75, PoliticalBias: "center", BiasScore: 3, FactAccuracy: "high", Notes: "Political journalism focused on policy and Washington"},
	"The Independent":     {CredibilityScore: 70, PoliticalBias: "center-left", BiasScore: 4, FactAccuracy: "generally factual", Notes: "British newspaper with center-left perspective"},

	// Medium credibility
	"ESPN": {CredibilityScore: 65, PoliticalBias: "center", BiasScore: 1, FactAccuracy: "factual", Notes: "Sports journalism - credibility for sports, not political news"},

	// Government/official
	"The White House (.gov)": {CredibilityScore: 75, PoliticalBias: "government", BiasScore: 5, FactAccuracy: "official", Notes: "Official government source - factual but reflects current administration"},

	unknownSource: {CredibilityScore: 60, PoliticalBias: "unknown", BiasScore: 5, FactAccuracy: "unknown", Notes: "Source not in credibility database"},
}

// Table is the static credibility lookup.
type Table struct{}

// Lookup returns the entry for a source display name, falling back to the
// Unknown default for unlisted sources.
func (Table) Lookup(source string) domain.SourceCredibility {
	if entry, ok := sourceCredibility[source]; ok {
		return entry
	}
	return sourceCredibility[unknownSource]
}

// CredibilityScorer attaches source credibility data to every preprocessed
// article and aggregates band counts.
type CredibilityScorer struct {
	table Table
}

// NewCredibilityScorer builds the stage.
func NewCredibilityScorer() *CredibilityScorer {
	return &CredibilityScorer{}
}

// Name identifies the stage in logs.
func (c *CredibilityScorer) Name() string { return "credibility" }

// Run scores all preprocessed articles.
func (c *CredibilityScorer) Run(_ context.Context, state *runstate.State) error {
	articles := state.Preprocessed
	if len(articles) == 0 {
		return fmt.Errorf("credibility: %w", domain.ErrEmptyStage)
	}

	scored := make([]domain.EnrichedArticle, 0, len(articles))
	var stats domain.CredibilityStats
	totalCredibility, totalBias := 0, 0

	for _, article := range articles {
		source := article.Source
		if source == "" {
			source = unknownSource
		}
		entry := c.table.Lookup(source)

		article.CredibilityScore = entry.CredibilityScore
		article.BiasScore = entry.BiasScore
		article.FactAccuracy = entry.FactAccuracy
		article.CredibilityNotes = entry.Notes

		switch {
		case entry.CredibilityScore >= 80:
			stats.HighCredibility++
		case entry.CredibilityScore >= 60:
			stats.MediumCredibility++
		default:
			stats.LowCredibility++
		}
		if entry.BiasScore >= 7 {
			stats.HighBias++
		} else if entry.BiasScore < 4 {
			stats.LowBias++
		}

		totalCredibility += entry.CredibilityScore
		totalBias += entry.BiasScore
		scored = append(scored, article)
	}

	stats.AvgCredibility = float64(totalCredibility) / float64(len(scored))
	stats.AvgBias = float64(totalBias) / float64(len(scored))

	state.FactChecked = scored
	state.CredibilityStats = stats
	return nil
}
