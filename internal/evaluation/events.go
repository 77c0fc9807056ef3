package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/pkg/activity"
	"github.com/ahrav/go-accord/pkg/events"
)

// Event types emitted by the evaluation domain.
const (
	EventTypeBatchCompleted = "evaluation.batch_completed"
	EventTypePlanNA         = "evaluation.plan_na"
)

const eventSource = "evaluation-activities"

// EventEmitter handles event emission for the evaluation domain.
// Emission is best-effort; failures are logged without affecting the
// evaluation result.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates a new EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// batchCompletedPayload is the wire payload for batch completion events.
type batchCompletedPayload struct {
	TotalPlans        int       `json:"total_plans"`
	Completed         int       `json:"completed"`
	NACount           int       `json:"na_count"`
	Failed            int       `json:"failed"`
	PartialEvaluation bool      `json:"partial_evaluation"`
	CompletedAt       time.Time `json:"completed_at"`
}

// planNAPayload is the wire payload for per-plan NA events.
type planNAPayload struct {
	PlanName  string `json:"plan_name"`
	Evaluator string `json:"evaluator"`
	NAReason  string `json:"na_reason"`
}

// EmitBatchCompleted emits a batch completion event plus one NA event per
// plan that could not be evaluated, so downstream consumers can surface
// degraded runs without parsing the full result.
func (e *EventEmitter) EmitBatchCompleted(
	ctx context.Context,
	result *domain.BatchResult,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(batchCompletedPayload{
		TotalPlans:        len(result.Outcomes),
		Completed:         result.Completed,
		NACount:           result.NACount,
		Failed:            result.Failed,
		PartialEvaluation: result.PartialEvaluation,
		CompletedAt:       time.Now().UTC(),
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal batch completion event", "error", err)
		return
	}

	idemKey := fmt.Sprintf("%s-%s-batch-completed", wfCtx.WorkflowID, wfCtx.RunID)
	e.base.EmitEventSafe(ctx, newEnvelope(EventTypeBatchCompleted, idemKey, wfCtx, payload),
		fmt.Sprintf("BatchCompleted[%s]", wfCtx.WorkflowID))

	for _, outcome := range result.Outcomes {
		if !outcome.IsNA() {
			continue
		}
		e.emitPlanNA(ctx, outcome, wfCtx)
	}
}

func (e *EventEmitter) emitPlanNA(
	ctx context.Context,
	outcome domain.EvaluationOutcome,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(planNAPayload{
		PlanName:  outcome.PlanName,
		Evaluator: outcome.Evaluator,
		NAReason:  outcome.NAReason,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal plan NA event",
			"plan", outcome.PlanName,
			"error", err)
		return
	}

	idemKey := fmt.Sprintf("%s-%s-na-%s", wfCtx.WorkflowID, wfCtx.RunID, outcome.PlanName)
	e.base.EmitEventSafe(ctx, newEnvelope(EventTypePlanNA, idemKey, wfCtx, payload),
		fmt.Sprintf("PlanNA[%s]", outcome.PlanName))
}

// newEnvelope builds an event envelope with deterministic IDs derived from
// the idempotency key so activity retries do not duplicate events.
func newEnvelope(
	eventType, idemKey string,
	wfCtx activity.WorkflowContext,
	payload json.RawMessage,
) events.Envelope {
	return events.Envelope{
		ID:             idemKey,
		Type:           eventType,
		Source:         eventSource,
		Version:        "1.0.0",
		Timestamp:      time.Now().UTC(),
		IdempotencyKey: idemKey,
		WorkflowID:     wfCtx.WorkflowID,
		RunID:          wfCtx.RunID,
		Payload:        payload,
	}
}
