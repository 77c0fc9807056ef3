package domain

import "math"

// Severity tiers a judge disagreement by the absolute score difference.
// Tiers drive the resolution strategy: low and medium disagreements are
// blended automatically, high disagreements go through expert mediation,
// and critical disagreements are escalated to a human reviewer.
type Severity string

const (
	// SeverityLow covers differences in [0, 0.5).
	SeverityLow Severity = "low"

	// SeverityMedium covers differences in [0.5, 1.0].
	SeverityMedium Severity = "medium"

	// SeverityHigh covers differences in (1.0, 2.0].
	SeverityHigh Severity = "high"

	// SeverityCritical covers differences greater than 2.0.
	SeverityCritical Severity = "critical"
)

// Severity tier boundaries. Half-open and contiguous; a difference of
// exactly 1.0 is medium, not high.
const (
	LowSeverityMax    = 0.5
	MediumSeverityMax = 1.0
	HighSeverityMax   = 2.0
)

// SeverityForDifference classifies an absolute score difference into a tier.
// Monotonic non-decreasing in the difference.
func SeverityForDifference(difference float64) Severity {
	switch {
	case difference < LowSeverityMax:
		return SeverityLow
	case difference <= MediumSeverityMax:
		return SeverityMedium
	case difference <= HighSeverityMax:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}

// ConflictAnalysis is a detected disagreement between the two judges on one
// (plan, criterion) pair. Created fresh per analysis run, never mutated,
// consumed immediately by the resolver.
type ConflictAnalysis struct {
	// PlanName and Criterion identify the disagreement.
	PlanName  string `json:"plan_name"`
	Criterion string `json:"criterion"`

	// PrimaryScore and SecondaryScore are the two judges' scores.
	PrimaryScore   float64 `json:"primary_score"`
	SecondaryScore float64 `json:"secondary_score"`

	// Difference is abs(PrimaryScore - SecondaryScore), exactly.
	Difference float64 `json:"difference"`

	// Severity is derived deterministically from Difference.
	Severity Severity `json:"severity"`

	// PrimaryRationale and SecondaryRationale carry the judges' free-text
	// justifications for evidence-quality scoring.
	PrimaryRationale   string `json:"primary_rationale"`
	SecondaryRationale string `json:"secondary_rationale"`

	// ConfidenceDelta is always 0.0 from the analyzer. The judges'
	// confidence fields are not yet wired through; kept so the medium
	// resolution strategy's blend weights have a stable input shape.
	ConfidenceDelta float64 `json:"confidence_delta"`
}

// NewConflictAnalysis builds a conflict for a matched criterion pair,
// computing the difference and severity from the two scores.
func NewConflictAnalysis(planName, criterion string, primary, secondary ScoredCriterion) ConflictAnalysis {
	diff := math.Abs(primary.Score - secondary.Score)
	return ConflictAnalysis{
		PlanName:           planName,
		Criterion:          criterion,
		PrimaryScore:       primary.Score,
		SecondaryScore:     secondary.Score,
		Difference:         diff,
		Severity:           SeverityForDifference(diff),
		PrimaryRationale:   primary.Rationale,
		SecondaryRationale: secondary.Rationale,
		ConfidenceDelta:    0.0,
	}
}

// ResolutionMap maps plan name -> criterion name -> resolved score.
// A known conflict with no entry has been escalated for human review;
// callers must not substitute a default score for a missing entry.
type ResolutionMap map[string]map[string]float64

// Set records a resolved score for a (plan, criterion) pair.
func (m ResolutionMap) Set(plan, criterion string, score float64) {
	scores, ok := m[plan]
	if !ok {
		scores = make(map[string]float64)
		m[plan] = scores
	}
	scores[criterion] = score
}

// Get returns the resolved score for a (plan, criterion) pair and whether
// one exists.
func (m ResolutionMap) Get(plan, criterion string) (float64, bool) {
	scores, ok := m[plan]
	if !ok {
		return 0, false
	}
	score, ok := scores[criterion]
	return score, ok
}

// Len counts resolved (plan, criterion) entries across all plans.
func (m ResolutionMap) Len() int {
	n := 0
	for _, scores := range m {
		n += len(scores)
	}
	return n
}
