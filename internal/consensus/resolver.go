package consensus

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ahrav/go-accord/internal/domain"
)

// Resolution strategy names, reported per conflict in the consensus report.
const (
	strategyWeightedAverage = "weighted_average_resolution"
	strategyEvidenceBased   = "evidence_based_resolution"
	strategyExpertMediation = "expert_mediation_resolution"
	strategyHumanEscalation = "human_escalation_resolution"
)

// evidenceDominanceRatio is the relative margin by which one side's
// evidence quality must exceed the other's for its raw score to win
// outright, without blending.
const evidenceDominanceRatio = 1.2

// Expert-mediation heuristic factors. These are fixed stand-ins, not
// learned or data-driven signals; real judge-reliability, consistency,
// benchmark, and bias inputs are not wired yet. The reliability factor
// stays at or below the 0.7 primary-override threshold, so the override
// branch cannot fire with these placeholder values.
const (
	mediationReliabilityThreshold = 0.7

	mediationReliabilityFactor = 0.5
	mediationConsistencyFactor = 0.6
	mediationBenchmarkFactor   = 0.7
	mediationBiasFactor        = 0.6
)

// Escalation urgency and routing tags for critical conflicts.
const (
	escalationUrgency   = "HIGH"
	escalationExpertise = "accessibility-remediation"
	escalationDeadline  = "48h"
)

// Escalation is the operator-visible record of a critical conflict that
// was deliberately not auto-resolved. A judge disagreement above 2.0 on a
// 10-point scale goes to a human reviewer, never to arithmetic.
type Escalation struct {
	// ID uniquely identifies this escalation for tracking.
	ID string `json:"id"`

	// Conflict carries the full disagreement details for the reviewer.
	Conflict domain.ConflictAnalysis `json:"conflict"`

	// Urgency is always HIGH for critical conflicts.
	Urgency string `json:"urgency"`

	// RequiredExpertise tags the reviewer pool that should pick this up.
	RequiredExpertise string `json:"required_expertise"`

	// ReviewDeadline tags how quickly review is expected.
	ReviewDeadline string `json:"review_deadline"`

	// CreatedAt records when the escalation was raised.
	CreatedAt time.Time `json:"created_at"`
}

// ResolveConflicts dispatches each conflict to the strategy for its
// severity tier and accumulates resolved scores per (plan, criterion).
// Critical conflicts contribute no map entry; they come back as escalation
// records instead, and callers must treat a missing entry for a known
// conflict as "unresolved, escalated" rather than substituting a default.
func (e *Engine) ResolveConflicts(conflicts []domain.ConflictAnalysis) (domain.ResolutionMap, []Escalation) {
	resolutions := make(domain.ResolutionMap)
	var escalations []Escalation

	for _, conflict := range conflicts {
		switch conflict.Severity {
		case domain.SeverityLow:
			resolutions.Set(conflict.PlanName, conflict.Criterion,
				resolveWeightedAverage(conflict, e.primaryWeight, e.secondaryWeight))

		case domain.SeverityMedium:
			resolutions.Set(conflict.PlanName, conflict.Criterion,
				resolveEvidenceBased(conflict))

		case domain.SeverityHigh:
			resolutions.Set(conflict.PlanName, conflict.Criterion,
				resolveExpertMediation(conflict))

		case domain.SeverityCritical:
			escalation := e.escalate(conflict)
			escalations = append(escalations, escalation)
		}
	}

	return resolutions, escalations
}

// resolveWeightedAverage blends the two scores by the fixed per-judge
// reliability weights. The result always lies between the two input scores.
func resolveWeightedAverage(c domain.ConflictAnalysis, primaryWeight, secondaryWeight float64) float64 {
	resolved := (c.PrimaryScore*primaryWeight + c.SecondaryScore*secondaryWeight) /
		(primaryWeight + secondaryWeight)
	return round2(resolved)
}

// resolveEvidenceBased compares the quality of the two rationales. A side
// whose evidence quality dominates by more than 20% relative wins outright
// with its raw score; otherwise the scores are blended by confidence-derived
// weights. With ConfidenceDelta pinned at 0.0 by the analyzer, the blend
// degenerates to a plain average.
func resolveEvidenceBased(c domain.ConflictAnalysis) float64 {
	primaryQuality := ScoreEvidenceQuality(c.PrimaryRationale)
	secondaryQuality := ScoreEvidenceQuality(c.SecondaryRationale)

	if primaryQuality > secondaryQuality*evidenceDominanceRatio {
		return c.PrimaryScore
	}
	if secondaryQuality > primaryQuality*evidenceDominanceRatio {
		return c.SecondaryScore
	}

	primaryConfidence := 1.0
	if c.ConfidenceDelta < 0 {
		primaryConfidence = 1.0 - c.ConfidenceDelta
	}
	secondaryConfidence := 1.0
	if c.ConfidenceDelta > 0 {
		secondaryConfidence = 1.0 + c.ConfidenceDelta
	}

	resolved := (c.PrimaryScore*primaryConfidence + c.SecondaryScore*secondaryConfidence) /
		(primaryConfidence + secondaryConfidence)
	return round2(resolved)
}

// resolveExpertMediation composes the four mediation factors into a blend
// weight. If the reliability factor ever exceeded the override threshold the
// primary score would win outright, but the placeholder factor keeps that
// branch unreachable.
func resolveExpertMediation(c domain.ConflictAnalysis) float64 {
	if mediationReliabilityFactor > mediationReliabilityThreshold {
		return c.PrimaryScore
	}

	weight := (mediationReliabilityFactor + mediationConsistencyFactor +
		mediationBenchmarkFactor + mediationBiasFactor) / 4

	composite := c.PrimaryScore*weight + c.SecondaryScore*(1-weight)
	return round2(composite)
}

// escalate raises a critical conflict to the operator channel.
func (e *Engine) escalate(c domain.ConflictAnalysis) Escalation {
	escalation := Escalation{
		ID:                uuid.New().String(),
		Conflict:          c,
		Urgency:           escalationUrgency,
		RequiredExpertise: escalationExpertise,
		ReviewDeadline:    escalationDeadline,
		CreatedAt:         time.Now(),
	}

	e.logger.Warn("critical judge conflict escalated for human review",
		"escalation_id", escalation.ID,
		"plan", c.PlanName,
		"criterion", c.Criterion,
		"difference", fmt.Sprintf("%.2f", c.Difference),
		"urgency", escalation.Urgency)

	return escalation
}

// round2 rounds to two decimal places, matching the resolution contracts.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
