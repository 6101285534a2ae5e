package enrich

import (
	"context"
	"fmt"
	"strings"

	"newsdigest/internal/domain"
	"newsdigest/internal/runstate"
)

// Hedging keywords whose presence marks a claim for human review.
var verificationKeywords = []string{
	"reportedly", "allegedly", "claims", "unconfirmed",
	"sources say", "anonymous", "rumored", "speculation",
}

// highBiasThreshold flags every claim from a source at or above this bias
// score regardless of wording.
const highBiasThreshold = 7

// ClaimFlagger scans extracted claims for hedging language and high-bias
// sources.
type ClaimFlagger struct{}

// NewClaimFlagger builds the stage.
func NewClaimFlagger() *ClaimFlagger {
	return &ClaimFlagger{}
}

// Name identifies the stage in logs.
func (f *ClaimFlagger) Name() string { return "claim-flagging" }

// Run flags dubious claims across all fact-checked articles. The flag rate
// is flagged/total and exactly 0 when no claims were extracted.
func (f *ClaimFlagger) Run(_ context.Context, state *runstate.State) error {
	articles := state.FactChecked
	if len(articles) == 0 {
		return fmt.Errorf("claim flagging: %w", domain.ErrEmptyStage)
	}

	var flagged []domain.FlaggedClaim
	total := 0

	for _, article := range articles {
		total += len(article.Claims)
		highBias := article.BiasScore >= highBiasThreshold

		for _, claim := range article.Claims {
			lower := strings.ToLower(claim)
			needsVerification := false
			for _, kw := range verificationKeywords {
				if strings.Contains(lower, kw) {
					needsVerification = true
					break
				}
			}
			if !needsVerification && !highBias {
				continue
			}

			reason := "verification_keyword"
			if !needsVerification {
				reason = "high_bias_source"
			}
			flagged = append(flagged, domain.FlaggedClaim{
				Claim:            claim,
				Source:           article.Source,
				ArticleTitle:     article.Title,
				Reason:           reason,
				CredibilityScore: article.CredibilityScore,
			})
		}
	}

	stats := domain.ClaimStats{TotalClaims: total, FlaggedCount: len(flagged)}
	if total > 0 {
		stats.FlagRate = float64(len(flagged)) / float64(total)
	}

	state.FlaggedClaims = flagged
	state.ClaimStats = stats
	return nil
}
