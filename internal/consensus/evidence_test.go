package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEvidenceQuality(t *testing.T) {
	tests := []struct {
		name      string
		rationale string
		want      float64
	}{
		{name: "empty rationale", rationale: "", want: 0.0},
		{name: "no signals", rationale: "looks fine to me", want: 0.0},
		{name: "example phrase only", rationale: "For example, the header menu", want: 0.30},
		{name: "guideline term only", rationale: "violates WCAG requirements", want: 0.20},
		{name: "technical term only", rationale: "the ARIA attributes are wrong", want: 0.20},
		{name: "user impact only", rationale: "this creates a barrier", want: 0.15},
		{
			name:      "digit with unit",
			rationale: "contrast ratio of 3.2 fails",
			want:      0.15,
		},
		{
			name:      "digit without unit does not count",
			rationale: "there are 3 issues remaining",
			want:      0.0,
		},
		{
			name:      "unit without digit does not count",
			rationale: "improves the contrast ratio somewhat",
			want:      0.0,
		},
		{
			name:      "case insensitive matching",
			rationale: "SUCH AS the WCAG Level AA checks",
			want:      0.50,
		},
		{
			name:      "example and technical",
			rationale: "for example the CSS focus styles",
			want:      0.50,
		},
		{
			name: "all five signals",
			rationale: "For example, the ARIA labels violate WCAG and block users; " +
				"contrast is 2.8 ratio",
			want: 1.0,
		},
		{
			name:      "repeated signals count once",
			rationale: "wcag wcag guideline level aa",
			want:      0.20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreEvidenceQuality(tt.rationale), 1e-9)
		})
	}
}

func TestScoreEvidenceQuality_Deterministic(t *testing.T) {
	rationale := "For example, the ARIA roles fail WCAG Level AA for 40% of users"

	first := ScoreEvidenceQuality(rationale)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreEvidenceQuality(rationale))
	}
}

func TestScoreEvidenceQuality_RichBeatsBare(t *testing.T) {
	rich := "Specifically, the ARIA labels violate WCAG 2.1 Level AA and create " +
		"barriers for screen-reader users; contrast ratio is 2.9"
	bare := "ok"

	assert.Greater(t, ScoreEvidenceQuality(rich), ScoreEvidenceQuality(bare))
}

func TestScoreEvidenceQuality_Bounds(t *testing.T) {
	inputs := []string{
		"",
		"ok",
		"for example such as specifically wcag guideline code css html aria user barrier 99% seconds pixels ratio",
	}
	for _, input := range inputs {
		score := ScoreEvidenceQuality(input)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
}
