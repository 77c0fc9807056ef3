package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-accord/internal/domain"
)

func conflict(plan, crit string, primary, secondary float64, primaryRationale, secondaryRationale string) domain.ConflictAnalysis {
	return domain.NewConflictAnalysis(plan, crit,
		domain.ScoredCriterion{Criterion: crit, Score: primary, Rationale: primaryRationale},
		domain.ScoredCriterion{Criterion: crit, Score: secondary, Rationale: secondaryRationale},
	)
}

func TestResolveConflicts_LowSeverityWeightedAverage(t *testing.T) {
	c := conflict("PlanA", "Strategic Prioritization", 8.0, 7.7, "", "")
	require.Equal(t, domain.SeverityLow, c.Severity)

	resolutions, escalations := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

	require.Empty(t, escalations)
	resolved, ok := resolutions.Get("PlanA", "Strategic Prioritization")
	require.True(t, ok)

	want := (8.0*domain.PrimaryJudgeAccuracy + 7.7*domain.SecondaryJudgeAccuracy) /
		(domain.PrimaryJudgeAccuracy + domain.SecondaryJudgeAccuracy)
	assert.InDelta(t, math.Round(want*100)/100, resolved, 1e-9)
	assert.GreaterOrEqual(t, resolved, 7.7)
	assert.LessOrEqual(t, resolved, 8.0, "weighted average stays between the inputs")
}

func TestResolveConflicts_IdenticalScoresResolveToSameScore(t *testing.T) {
	c := conflict("PlanA", "Comprehensiveness", 6.5, 6.5, "", "")
	require.Equal(t, domain.SeverityLow, c.Severity)
	require.Zero(t, c.Difference)

	resolutions, _ := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

	resolved, ok := resolutions.Get("PlanA", "Comprehensiveness")
	require.True(t, ok)
	assert.InDelta(t, 6.5, resolved, 0.01)
}

func TestResolveConflicts_MediumSeverityEvidenceBased(t *testing.T) {
	rich := "Specifically, the ARIA labels violate WCAG Level AA and block users; contrast is 2.9 ratio"
	bare := "ok"

	t.Run("dominant primary evidence wins outright", func(t *testing.T) {
		c := conflict("PlanA", "Technical Specificity", 8.0, 7.2, rich, bare)
		require.Equal(t, domain.SeverityMedium, c.Severity)

		resolutions, _ := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

		resolved, ok := resolutions.Get("PlanA", "Technical Specificity")
		require.True(t, ok)
		assert.Equal(t, 8.0, resolved, "dominant evidence takes its raw score")
	})

	t.Run("dominant secondary evidence wins outright", func(t *testing.T) {
		c := conflict("PlanA", "Technical Specificity", 8.0, 7.2, bare, rich)

		resolutions, _ := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

		resolved, ok := resolutions.Get("PlanA", "Technical Specificity")
		require.True(t, ok)
		assert.Equal(t, 7.2, resolved)
	})

	t.Run("comparable evidence blends to plain average", func(t *testing.T) {
		c := conflict("PlanA", "Technical Specificity", 8.0, 7.2, rich, rich)

		resolutions, _ := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

		resolved, ok := resolutions.Get("PlanA", "Technical Specificity")
		require.True(t, ok)
		assert.InDelta(t, 7.6, resolved, 1e-9,
			"zero confidence delta degenerates the blend to a plain average")
	})
}

func TestResolveConflicts_HighSeverityExpertMediation(t *testing.T) {
	c := conflict("PlanA", "Strategic Prioritization", 8.0, 6.0, "", "")
	require.Equal(t, domain.SeverityHigh, c.Severity)

	resolutions, escalations := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

	require.Empty(t, escalations)
	resolved, ok := resolutions.Get("PlanA", "Strategic Prioritization")
	require.True(t, ok)

	// Composite weight is the mean of the four mediation factors.
	assert.InDelta(t, 8.0*0.6+6.0*0.4, resolved, 1e-9)
	assert.GreaterOrEqual(t, resolved, 6.0)
	assert.LessOrEqual(t, resolved, 8.0)
}

func TestResolveConflicts_CriticalSeverityEscalates(t *testing.T) {
	c := conflict("PlanA", "Strategic Prioritization", 9.0, 2.0, "", "")
	require.Equal(t, domain.SeverityCritical, c.Severity)

	resolutions, escalations := testEngine().ResolveConflicts([]domain.ConflictAnalysis{c})

	_, ok := resolutions.Get("PlanA", "Strategic Prioritization")
	assert.False(t, ok, "critical conflicts must not be auto-resolved")
	assert.Zero(t, resolutions.Len())

	require.Len(t, escalations, 1)
	esc := escalations[0]
	assert.NotEmpty(t, esc.ID)
	assert.Equal(t, "HIGH", esc.Urgency)
	assert.Equal(t, "accessibility-remediation", esc.RequiredExpertise)
	assert.Equal(t, "48h", esc.ReviewDeadline)
	assert.Equal(t, c, esc.Conflict)
	assert.False(t, esc.CreatedAt.IsZero())
}

func TestResolveConflicts_MixedSeverities(t *testing.T) {
	conflicts := []domain.ConflictAnalysis{
		conflict("PlanA", "Strategic Prioritization", 8.0, 7.9, "", ""), // low
		conflict("PlanA", "Technical Specificity", 8.0, 7.2, "", ""),    // medium
		conflict("PlanB", "Comprehensiveness", 8.0, 6.0, "", ""),        // high
		conflict("PlanB", "Long-Term Vision", 9.0, 2.0, "", ""),         // critical
	}

	resolutions, escalations := testEngine().ResolveConflicts(conflicts)

	assert.Equal(t, 3, resolutions.Len())
	assert.Len(t, escalations, 1)
	assert.Equal(t, "Long-Term Vision", escalations[0].Conflict.Criterion)

	_, ok := resolutions.Get("PlanB", "Long-Term Vision")
	assert.False(t, ok)
}

func TestResolveConflicts_ResultsRoundedToTwoDecimals(t *testing.T) {
	conflicts := []domain.ConflictAnalysis{
		conflict("PlanA", "Strategic Prioritization", 7.33, 7.11, "", ""),
		conflict("PlanA", "Comprehensiveness", 8.0, 6.1, "", ""),
	}

	resolutions, _ := testEngine().ResolveConflicts(conflicts)

	for plan, scores := range resolutions {
		for crit, score := range scores {
			assert.InDelta(t, score, math.Round(score*100)/100, 1e-12,
				"%s/%s not rounded", plan, crit)
		}
	}
}

// Full pipeline over the high-disagreement scenario: analysis classifies the
// 2.0 spread as high, mediation resolves inside the judges' range.
func TestAnalyzeAndResolve_HighDisagreement(t *testing.T) {
	evaluations := []domain.PlanEvaluation{
		evalFor("PlanA", domain.JudgePrimary, criterion("Strategic Prioritization", 8.0, "")),
		evalFor("PlanA", domain.JudgeSecondary, criterion("Strategic Prioritization", 6.0, "")),
	}

	engine := testEngine()
	conflicts := engine.AnalyzeConflicts(evaluations)
	require.Len(t, conflicts, 1)
	require.Equal(t, domain.SeverityHigh, conflicts[0].Severity)

	resolutions, escalations := engine.ResolveConflicts(conflicts)

	assert.Empty(t, escalations)
	resolved, ok := resolutions.Get("PlanA", "Strategic Prioritization")
	require.True(t, ok)
	assert.GreaterOrEqual(t, resolved, 6.0)
	assert.LessOrEqual(t, resolved, 8.0)
}
