// Package domain defines the value types for dual-judge plan evaluation:
// per-criterion judge scores, plan evaluations, evaluation outcomes, and the
// conflict/severity model used by the consensus engine.
//
// Evaluation Model:
//   - Two fixed judges (primary and secondary) score the same plan
//     independently against a weighted rubric.
//   - A PlanEvaluation is created once per (plan, judge) pair after a
//     successful LLM call and is immutable thereafter.
//   - Evaluations are held in memory for the duration of one run; there is
//     no persistence layer.
package domain

import (
	"errors"
	"time"
)

// Evaluation-specific errors returned by domain validation.
var (
	// ErrNoLLMAvailable indicates that neither judge endpoint is usable.
	// Raised once per batch when the availability check finds zero live LLMs.
	ErrNoLLMAvailable = errors.New("no LLM available for evaluation")

	// ErrPartialEvaluation indicates a batch completed with some plans
	// unevaluated. Reserved for callers that treat partial completion as
	// fatal rather than degraded.
	ErrPartialEvaluation = errors.New("evaluation completed partially")

	// ErrEmptyEvaluations indicates that no evaluations were provided.
	ErrEmptyEvaluations = errors.New("no evaluations provided")
)

// JudgeID identifies one of the two fixed judge LLMs.
type JudgeID string

const (
	// JudgePrimary is the primary judge endpoint (Gemini).
	JudgePrimary JudgeID = "gemini"

	// JudgeSecondary is the secondary judge endpoint (GPT-4).
	JudgeSecondary JudgeID = "gpt4"
)

// DisplayName returns the human-readable evaluator label for a judge.
func (j JudgeID) DisplayName() string {
	switch j {
	case JudgePrimary:
		return "Primary Judge (Gemini)"
	case JudgeSecondary:
		return "Secondary Judge (GPT-4)"
	default:
		return string(j) + " Judge"
	}
}

// Judge reliability weights used by the low-severity weighted-average
// resolution strategy. These are calibration constants, not learned values.
const (
	// PrimaryJudgeAccuracy is the reliability weight for the primary judge.
	PrimaryJudgeAccuracy = 0.85

	// SecondaryJudgeAccuracy is the reliability weight for the secondary judge.
	SecondaryJudgeAccuracy = 0.88
)

// Criterion names the rubric aspects a judge scores a plan against.
// Kept as string type for flexibility in custom rubrics.
type Criterion string

// Standard rubric criteria for accessibility-remediation plan evaluation.
const (
	CritStrategic         Criterion = "Strategic Prioritization"
	CritTechnical         Criterion = "Technical Specificity"
	CritComprehensiveness Criterion = "Comprehensiveness"
	CritLongTermVision    Criterion = "Long-Term Vision"
)

// Rubric criterion weights as percentages of the overall score.
const (
	StrategicWeight         = 0.40
	TechnicalWeight         = 0.30
	ComprehensivenessWeight = 0.20
	LongTermVisionWeight    = 0.10
)

// RubricCriteria returns the standard criteria in rubric order.
// Prompt construction and reports depend on this order being stable.
func RubricCriteria() []Criterion {
	return []Criterion{
		CritStrategic,
		CritTechnical,
		CritComprehensiveness,
		CritLongTermVision,
	}
}

// DefaultRubricWeights returns the standard criterion weights.
// Returns a fresh copy to prevent mutation.
func DefaultRubricWeights() map[Criterion]float64 {
	return map[Criterion]float64{
		CritStrategic:         StrategicWeight,
		CritTechnical:         TechnicalWeight,
		CritComprehensiveness: ComprehensivenessWeight,
		CritLongTermVision:    LongTermVisionWeight,
	}
}

// ScoredCriterion is one judge's assessment of one rubric criterion
// for one plan. Scores are on a 0-10 scale; confidence on 0-1.
type ScoredCriterion struct {
	// Criterion names the rubric aspect. Conflicts are detected by exact
	// string equality between the two judges' criterion names.
	Criterion string `json:"criterion" validate:"required"`

	// Score is the judge's score for this criterion, 0 (worst) to 10 (best).
	Score float64 `json:"score" validate:"min=0,max=10"`

	// Rationale is the free-text justification for the score. Consumed by
	// the evidence-quality heuristics during medium-severity resolution.
	Rationale string `json:"rationale"`

	// Confidence is the judge's self-reported confidence in this score.
	// Present in the model but not currently consulted by resolution logic.
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
}

// PlanEvaluation is one judge's full scored evaluation of one plan.
// Created once per (plan, judge) pair; immutable thereafter.
type PlanEvaluation struct {
	// PlanName identifies the plan under evaluation, e.g. "PlanA".
	PlanName string `json:"plan_name" validate:"required"`

	// JudgeID identifies which of the two judges produced this evaluation.
	JudgeID JudgeID `json:"judge_id" validate:"required,oneof=gemini gpt4"`

	// Scores holds the per-criterion assessments in the order the judge
	// produced them. May cover a subset of the full rubric; criteria absent
	// from either side produce no conflicts.
	Scores []ScoredCriterion `json:"scores" validate:"dive"`

	// OverallScore is the judge's holistic 0-10 score for the plan.
	// Independent of the per-criterion scores; no invariant ties it to
	// their weighted average.
	OverallScore float64 `json:"overall_score" validate:"min=0,max=10"`
}

// Validate checks the evaluation against its structural constraints.
func (p *PlanEvaluation) Validate() error { return validate.Struct(p) }

// CriterionScore returns the score for a named criterion and whether the
// judge scored it.
func (p *PlanEvaluation) CriterionScore(name string) (float64, bool) {
	for _, s := range p.Scores {
		if s.Criterion == name {
			return s.Score, true
		}
	}
	return 0, false
}

// Plan is one remediation plan submitted for dual-judge evaluation.
type Plan struct {
	// Name identifies the plan within a batch, e.g. "PlanA".
	Name string `json:"name" validate:"required"`

	// Content is the plan text interpolated into the evaluation prompt.
	Content string `json:"content" validate:"required"`
}

// EvaluationInput is the batch contract for evaluating a set of plans.
// Plans are evaluated strictly in slice order and that order is preserved
// in the output outcomes.
type EvaluationInput struct {
	// Plans lists the remediation plans to evaluate, in evaluation order.
	Plans []Plan `json:"plans" validate:"required,min=1,dive"`

	// AuditContext is shared accessibility-audit background interpolated
	// into every evaluation prompt.
	AuditContext string `json:"audit_context"`
}

// Validate checks the input against the batch operation contract.
func (e *EvaluationInput) Validate() error { return validate.Struct(e) }

// EvaluationStatus describes the terminal state of one plan's evaluation.
type EvaluationStatus string

const (
	// StatusCompleted indicates a judge produced an evaluation for the plan.
	StatusCompleted EvaluationStatus = "completed"

	// StatusNA indicates neither judge could evaluate the plan.
	StatusNA EvaluationStatus = "NA"
)

// NAReasonMaxLen caps the human-readable reason carried on NA outcomes.
const NAReasonMaxLen = 500

// NAReasonUnknown is the fallback reason when no failure detail is available.
const NAReasonUnknown = "Unknown error"

// EvaluationOutcome is the per-plan result of the primary-then-secondary
// fallback evaluation. A plan that cannot be evaluated by either judge
// surfaces as an NA outcome, never as an error or a dropped plan.
type EvaluationOutcome struct {
	// PlanName identifies the evaluated plan.
	PlanName string `json:"plan_name"`

	// Status is "completed" or "NA".
	Status EvaluationStatus `json:"status"`

	// Evaluator is the display label of the judge that produced the result.
	Evaluator string `json:"evaluator"`

	// LLMUsed names the endpoint that served the evaluation, or "both"
	// for NA outcomes where both endpoints were tried or down.
	LLMUsed string `json:"llm_used"`

	// Content is the raw evaluation text returned by the judge.
	// Empty for NA outcomes.
	Content string `json:"evaluation_content,omitempty"`

	// NAReason carries the failure explanation for NA outcomes,
	// truncated to NAReasonMaxLen characters.
	NAReason string `json:"na_reason,omitempty"`

	// Success is true only for completed outcomes.
	Success bool `json:"success"`

	// Timestamp records when the outcome was produced.
	Timestamp time.Time `json:"timestamp"`
}

// IsNA reports whether the plan could not be evaluated by either judge.
func (o *EvaluationOutcome) IsNA() bool { return o.Status == StatusNA }

// BatchResult aggregates the outcomes of one batch evaluation run.
type BatchResult struct {
	// Outcomes holds one entry per input plan, in input order.
	Outcomes []EvaluationOutcome `json:"outcomes"`

	// Completed counts plans that received a judge evaluation.
	Completed int `json:"completed"`

	// NACount counts plans recorded as NA.
	NACount int `json:"na_count"`

	// Failed counts plans whose evaluation attempt errored before an
	// outcome could be classified. Normally zero; NA absorbs judge failures.
	Failed int `json:"failed_count"`

	// PartialEvaluation is true when Completed is less than the number
	// of input plans.
	PartialEvaluation bool `json:"partial_evaluation"`
}

// TruncateNAReason normalizes a failure reason for NA outcomes: empty
// reasons default to NAReasonUnknown and long reasons are capped at
// NAReasonMaxLen characters.
func TruncateNAReason(reason string) string {
	if reason == "" {
		return NAReasonUnknown
	}
	if len(reason) > NAReasonMaxLen {
		return reason[:NAReasonMaxLen]
	}
	return reason
}
