package consensus

import (
	"strings"
	"unicode"
)

// Evidence-quality signal weights. The five weights sum to exactly 1.0;
// the cap in ScoreEvidenceQuality is defensive, not normally binding.
const (
	exampleWeight      = 0.30
	guidelineWeight    = 0.20
	technicalWeight    = 0.20
	userImpactWeight   = 0.15
	quantitativeWeight = 0.15
)

// Keyword sets for the five evidence signals, matched case-insensitively.
var (
	examplePhrases    = []string{"for example", "such as", "specifically"}
	guidelineTerms    = []string{"wcag", "guideline", "level aa", "level a"}
	technicalTerms    = []string{"code", "css", "html", "aria", "implementation"}
	userImpactTerms   = []string{"user", "accessibility", "usability", "barrier"}
	quantitativeUnits = []string{"%", "seconds", "pixels", "ratio"}
)

// ScoreEvidenceQuality scores a judge's rationale text on five additive
// textual signals, returning a value in [0, 1]. Pure and deterministic:
// the same text always yields the same score.
func ScoreEvidenceQuality(rationale string) float64 {
	lowered := strings.ToLower(rationale)

	score := 0.0
	if containsAny(lowered, examplePhrases) {
		score += exampleWeight
	}
	if containsAny(lowered, guidelineTerms) {
		score += guidelineWeight
	}
	if containsAny(lowered, technicalTerms) {
		score += technicalWeight
	}
	if containsAny(lowered, userImpactTerms) {
		score += userImpactWeight
	}
	if containsDigit(lowered) && containsAny(lowered, quantitativeUnits) {
		score += quantitativeWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
