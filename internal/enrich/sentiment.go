package enrich

import (
	"context"
	"fmt"
	"math"

	"github.com/jonreiter/govader"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// Polarity thresholds for the three sentiment categories.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// SentimentAnalyzer scores polarity and subjectivity for every fact-checked
// article using the VADER lexicon.
type SentimentAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewSentimentAnalyzer builds the stage with a fresh VADER analyzer.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Name identifies the stage in logs.
func (s *SentimentAnalyzer) Name() string { return "sentiment" }

// Run analyzes all fact-checked articles. Polarity is the VADER compound
// score (-1..1); subjectivity is the non-neutral share of the text (0..1),
// so fully neutral prose scores 0.
func (s *SentimentAnalyzer) Run(_ context.Context, state *runstate.State) error {
	articles := state.FactChecked
	if len(articles) == 0 {
		return fmt.Errorf("sentiment: %w", domain.ErrEmptyStage)
	}

	analyzed := make([]domain.EnrichedArticle, 0, len(articles))
	var stats domain.SentimentStats
	totalPolarity, totalSubjectivity := 0.0, 0.0

	for _, article := range articles {
		text := article.CleanText
		if text == "" {
			text = article.Text
		}

		polarity, subjectivity := 0.0, 0.0
		if text != "" {
			scores := s.analyzer.PolarityScores(text)
			polarity = scores.Compound
			subjectivity = math.Min(1, scores.Positive+scores.Negative)
		}

		article.SentimentPolarity = round3(polarity)
		article.SentimentSubjectivity = round3(subjectivity)

		switch {
		case polarity > positiveThreshold:
			article.SentimentCategory = domain.SentimentPositive
			stats.Positive++
		case polarity < negativeThreshold:
			article.SentimentCategory = domain.SentimentNegative
			stats.Negative++
		default:
			article.SentimentCategory = domain.SentimentNeutral
			stats.Neutral++
		}

		totalPolarity += polarity
		totalSubjectivity += subjectivity
		analyzed = append(analyzed, article)
	}

	stats.AvgPolarity = round3(totalPolarity / float64(len(analyzed)))
	stats.AvgSubjectivity = round3(totalSubjectivity / float64(len(analyzed)))

	state.Analyzed = analyzed
	state.SentimentStats = stats
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
