package consensus

import (
	"context"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/pkg/activity"
)

// Activities handles consensus-specific Temporal activities.
type Activities struct {
	activity.BaseActivities
	engine *Engine
	events *EventEmitter
}

// NewActivities creates consensus activities around an analysis engine.
func NewActivities(base activity.BaseActivities, engine *Engine) *Activities {
	return &Activities{
		BaseActivities: base,
		engine:         engine,
		events:         NewEventEmitter(base),
	}
}

// ResolveInput carries the paired judge evaluations into the consensus
// activity. Both judges' evaluations for a plan must be present for that
// plan to produce conflicts.
type ResolveInput struct {
	Evaluations []domain.PlanEvaluation `json:"evaluations"`
}

// Validate checks the input with struct validation plus per-evaluation rules.
func (in *ResolveInput) Validate() error {
	if len(in.Evaluations) == 0 {
		return domain.ErrEmptyEvaluations
	}
	for i := range in.Evaluations {
		if err := in.Evaluations[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ResolveOutput is the full consensus result: detected conflicts, the
// severity-resolved score map, escalations awaiting human review, and the
// formatted report.
type ResolveOutput struct {
	Conflicts   []domain.ConflictAnalysis `json:"conflicts"`
	Resolutions domain.ResolutionMap      `json:"resolutions"`
	Escalations []Escalation              `json:"escalations"`
	Report      string                    `json:"report"`
}

// ResolveConsensus detects score conflicts between the two judges, resolves
// them by severity, and renders the consensus report. Critical conflicts are
// escalated and emitted as events rather than resolved.
func (a *Activities) ResolveConsensus(
	ctx context.Context,
	input ResolveInput,
) (*ResolveOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid input", "ResolveConsensus", err)
	}

	wfCtx := a.GetWorkflowContext(ctx)
	activity.SafeLog(ctx, "Starting ResolveConsensus activity",
		"workflow_id", wfCtx.WorkflowID,
		"evaluations", len(input.Evaluations))

	conflicts := a.engine.AnalyzeConflicts(input.Evaluations)
	activity.RecordHeartbeat(ctx, "conflicts analyzed")

	resolutions, escalations := a.engine.ResolveConflicts(conflicts)
	report := a.engine.GenerateReport(conflicts, resolutions)

	for _, esc := range escalations {
		a.events.EmitConflictEscalated(ctx, esc, wfCtx)
	}
	a.events.EmitConsensusReached(ctx, conflicts, resolutions, escalations, wfCtx)

	activity.SafeLog(ctx, "ResolveConsensus completed",
		"conflicts", len(conflicts),
		"resolved", resolutions.Len(),
		"escalated", len(escalations))

	return &ResolveOutput{
		Conflicts:   conflicts,
		Resolutions: resolutions,
		Escalations: escalations,
		Report:      report,
	}, nil
}
