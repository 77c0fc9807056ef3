// Package consensus reconciles disagreements between the two judges'
// scored evaluations of the same plan. The engine pairs matching criteria,
// classifies score deltas into severity tiers, resolves each tier with a
// severity-appropriate strategy, and renders a human-readable report.
// Critical disagreements are never auto-resolved; they surface as
// escalation records for human review.
package consensus

import (
	"log/slog"

	"github.com/ahrav/go-accord/internal/domain"
)

// Engine detects and resolves conflicts between the two judges.
// Analysis is a pure function over the input evaluations; resolution
// consults the fixed judge reliability weights for the low-severity tier.
type Engine struct {
	primaryWeight   float64
	secondaryWeight float64
	logger          *slog.Logger
}

// NewEngine creates a consensus engine with the given judge reliability
// weights. Non-positive weights fall back to the calibration defaults.
func NewEngine(primaryAccuracy, secondaryAccuracy float64) *Engine {
	if primaryAccuracy <= 0 {
		primaryAccuracy = domain.PrimaryJudgeAccuracy
	}
	if secondaryAccuracy <= 0 {
		secondaryAccuracy = domain.SecondaryJudgeAccuracy
	}
	return &Engine{
		primaryWeight:   primaryAccuracy,
		secondaryWeight: secondaryAccuracy,
		logger:          slog.Default().With("component", "consensus_engine"),
	}
}

// AnalyzeConflicts pairs the two judges' per-criterion scores for each plan
// and classifies every matched pair into a severity tier.
//
// Pairing rules:
//   - A plan contributes conflicts only when both a primary-judge and a
//     secondary-judge evaluation are present for it.
//   - Criteria are matched by exact name equality; criteria present on only
//     one side are silently skipped.
//   - Identical scores still produce a (low-severity, zero-difference)
//     conflict; "no conflict" only means the criterion was absent from one side.
//
// Conflicts are emitted per plan in input order, and within a plan in the
// primary judge's criterion order.
func (e *Engine) AnalyzeConflicts(evaluations []domain.PlanEvaluation) []domain.ConflictAnalysis {
	type pair struct {
		primary   *domain.PlanEvaluation
		secondary *domain.PlanEvaluation
	}

	pairs := make(map[string]*pair)
	planOrder := make([]string, 0, len(evaluations))

	for i := range evaluations {
		eval := &evaluations[i]
		p, ok := pairs[eval.PlanName]
		if !ok {
			p = &pair{}
			pairs[eval.PlanName] = p
			planOrder = append(planOrder, eval.PlanName)
		}
		switch eval.JudgeID {
		case domain.JudgePrimary:
			p.primary = eval
		case domain.JudgeSecondary:
			p.secondary = eval
		}
	}

	var conflicts []domain.ConflictAnalysis
	for _, planName := range planOrder {
		p := pairs[planName]
		if p.primary == nil || p.secondary == nil {
			continue
		}

		secondaryByName := make(map[string]domain.ScoredCriterion, len(p.secondary.Scores))
		for _, sc := range p.secondary.Scores {
			secondaryByName[sc.Criterion] = sc
		}

		for _, primaryScore := range p.primary.Scores {
			secondaryScore, ok := secondaryByName[primaryScore.Criterion]
			if !ok {
				continue
			}
			conflicts = append(conflicts,
				domain.NewConflictAnalysis(planName, primaryScore.Criterion, primaryScore, secondaryScore))
		}
	}

	e.logger.Debug("conflict analysis complete",
		"evaluations", len(evaluations), "conflicts", len(conflicts))
	return conflicts
}
