package domain

import "time"

// Category enumerates the news categories the pipeline collects.
type Category string

const (
	CategoryPolitics   Category = "politics"
	CategoryTechnology Category = "technology"
	CategoryEurope     Category = "europe"
)

// Valid reports whether the category is one of the fixed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryPolitics, CategoryTechnology, CategoryEurope:
		return true
	}
	return false
}

// Article is the canonical record produced by the normalizer from one raw
// feed entry. Title is always non-empty and PublishedAt always falls inside
// the recency window; entries failing either never become Articles.
type Article struct {
	Title          string
	URL            string
	Source         string
	OriginalSource string // set when an aggregator rewrote Source from the title suffix
	Aggregator     string // e.g. "Google News" for re-published entries
	Leaning        string // feed-declared political leaning, informational
	Region         string
	Category       Category
	PublishedAt    time.Time // UTC
	Description    string    // HTML-stripped plain text
	Text           string
}

// Entities groups named entities extracted from one article.
type Entities struct {
	Persons       []string
	Organizations []string
	Locations     []string
	All           []string
}

// SentimentCategory classifies article polarity.
type SentimentCategory string

const (
	SentimentPositive SentimentCategory = "positive"
	SentimentNegative SentimentCategory = "negative"
	SentimentNeutral  SentimentCategory = "neutral"
)

// BiasDirection classifies the majority of bias keyword signals.
type BiasDirection string

const (
	BiasLeft    BiasDirection = "left-leaning"
	BiasRight   BiasDirection = "right-leaning"
	BiasNeutral BiasDirection = "neutral"
)

// EnrichedArticle is an Article plus the fields the enrichment chain adds.
// Each stage copies its input and fills in its own fields, so every stage's
// output is the authoritative superset for the next one.
type EnrichedArticle struct {
	Article

	// preprocess
	CleanText string
	Entities  Entities
	Claims    []string
	WordCount int

	// credibility scoring
	CredibilityScore int
	BiasScore        int
	FactAccuracy     string
	CredibilityNotes string

	// sentiment analysis
	SentimentPolarity     float64
	SentimentSubjectivity float64
	SentimentCategory     SentimentCategory

	// bias/keyword analysis
	BiasDirection         BiasDirection
	LeftKeywordCount      int
	RightKeywordCount     int
	EmotionalKeywordCount int
}

// Enrich lifts raw Articles into EnrichedArticles with zero-valued
// enrichment fields. Used when later stages were skipped and the digest has
// to be assembled from an earlier article set.
func Enrich(articles []Article) []EnrichedArticle {
	out := make([]EnrichedArticle, 0, len(articles))
	for _, a := range articles {
		out = append(out, EnrichedArticle{Article: a})
	}
	return out
}

// SourceCredibility is one row of the immutable source reference table used
// by the credibility stage.
type SourceCredibility struct {
	CredibilityScore int
	PoliticalBias    string
	BiasScore        int
	FactAccuracy     string
	Notes            string
}

// PreprocessStats summarizes the preprocess stage.
type PreprocessStats struct {
	TotalArticles int
	TotalEntities int
	TotalClaims   int
	AvgWordCount  float64
	UsedNER       bool
}

// CredibilityStats buckets articles into the fixed credibility/bias bands.
type CredibilityStats struct {
	HighCredibility   int // score >= 80
	MediumCredibility int // 60..79
	LowCredibility    int // < 60
	HighBias          int // bias score >= 7
	LowBias           int // bias score < 4
	AvgCredibility    float64
	AvgBias           float64
}

// FlaggedClaim is a claim selected for human review.
type FlaggedClaim struct {
	Claim            string
	Source           string
	ArticleTitle     string
	Reason           string // "verification_keyword" or "high_bias_source"
	CredibilityScore int
}

// ClaimStats summarizes the dubious-claim pass.
type ClaimStats struct {
	TotalClaims  int
	FlaggedCount int
	FlagRate     float64 // flagged/total, 0 when there are no claims
}

// SentimentStats aggregates run-wide sentiment.
type SentimentStats struct {
	Positive        int
	Negative        int
	Neutral         int
	AvgPolarity     float64
	AvgSubjectivity float64
}

// SourceBias accumulates bias keyword signals for one source.
type SourceBias struct {
	DisplayName       string
	LeftSignals       int
	RightSignals      int
	EmotionalLanguage int
	Articles          int
}

// Keyword is one entry of the corpus-wide frequency ranking.
type Keyword struct {
	Word  string
	Count int
}
