package feedsinfra

import "strings"

// Sports vocabulary used to keep game coverage out of the technology
// category. Google News topic search matches "tech" inside university names,
// so "Georgia Tech" football recaps arrive tagged as technology.
var sportsKeywords = []string{
	"touchdown", "quarterback", "football", "basketball", "baseball",
	"hockey", "playoff", "halftime", "home run", "inning", "field goal",
	"point guard", "free throw", "head coach", "season opener",
	"championship game", "ncaa", "kickoff", "score a goal", "wide receiver",
}

// University names that contain "tech" and therefore make a single sports
// keyword much more likely to indicate an actual sports story.
var ambiguousSchoolTerms = []string{
	"georgia tech", "virginia tech", "texas tech", "louisiana tech",
	"michigan tech",
}

// isSportsStory applies the asymmetric sports heuristic over the
// concatenated title and body text. When an ambiguous school name is present
// one sports keyword is enough to reject; otherwise two distinct keywords
// must co-occur, since single keywords produce too many false positives on
// genuine technology coverage.
func isSportsStory(text string) bool {
	lower := strings.ToLower(text)

	distinct := 0
	for _, kw := range sportsKeywords {
		if strings.Contains(lower, kw) {
			distinct++
			if distinct >= 2 {
				return true
			}
		}
	}

	if distinct == 0 {
		return false
	}

	for _, school := range ambiguousSchoolTerms {
		if strings.Contains(lower, school) {
			return true
		}
	}
	return false
}
