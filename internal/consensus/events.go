package consensus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/pkg/activity"
	"github.com/ahrav/go-accord/pkg/events"
)

// Event types emitted by the consensus domain.
const (
	EventTypeConflictEscalated = "consensus.conflict_escalated"
	EventTypeConsensusReached  = "consensus.reached"
)

const eventSource = "consensus-activities"

// EventEmitter handles event emission for the consensus domain.
// Emission is best-effort; failures are logged without affecting resolution.
type EventEmitter struct {
	base activity.BaseActivities
}

// NewEventEmitter creates a new EventEmitter with the provided base activities.
func NewEventEmitter(base activity.BaseActivities) *EventEmitter {
	return &EventEmitter{base: base}
}

// conflictEscalatedPayload is the wire payload for escalation events.
type conflictEscalatedPayload struct {
	EscalationID      string    `json:"escalation_id"`
	PlanName          string    `json:"plan_name"`
	Criterion         string    `json:"criterion"`
	PrimaryScore      float64   `json:"primary_score"`
	SecondaryScore    float64   `json:"secondary_score"`
	Difference        float64   `json:"difference"`
	Urgency           string    `json:"urgency"`
	RequiredExpertise string    `json:"required_expertise"`
	ReviewDeadline    string    `json:"review_deadline"`
	CreatedAt         time.Time `json:"created_at"`
}

// consensusReachedPayload summarizes a completed resolution pass.
type consensusReachedPayload struct {
	TotalConflicts int       `json:"total_conflicts"`
	Resolved       int       `json:"resolved"`
	Escalated      int       `json:"escalated"`
	ResolvedAt     time.Time `json:"resolved_at"`
}

// EmitConflictEscalated emits an event for a critical conflict requiring
// human review. The idempotency key is derived from the plan and criterion
// so activity retries do not duplicate escalations.
func (e *EventEmitter) EmitConflictEscalated(
	ctx context.Context,
	esc Escalation,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(conflictEscalatedPayload{
		EscalationID:      esc.ID,
		PlanName:          esc.Conflict.PlanName,
		Criterion:         esc.Conflict.Criterion,
		PrimaryScore:      esc.Conflict.PrimaryScore,
		SecondaryScore:    esc.Conflict.SecondaryScore,
		Difference:        esc.Conflict.Difference,
		Urgency:           esc.Urgency,
		RequiredExpertise: esc.RequiredExpertise,
		ReviewDeadline:    esc.ReviewDeadline,
		CreatedAt:         esc.CreatedAt,
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal escalation event",
			"plan", esc.Conflict.PlanName,
			"error", err)
		return
	}

	idemKey := fmt.Sprintf("%s-%s-escalation-%s-%s",
		wfCtx.WorkflowID, wfCtx.RunID, esc.Conflict.PlanName, esc.Conflict.Criterion)
	e.base.EmitEventSafe(ctx, newEnvelope(EventTypeConflictEscalated, idemKey, wfCtx, payload),
		fmt.Sprintf("ConflictEscalated[%s/%s]", esc.Conflict.PlanName, esc.Conflict.Criterion))
}

// EmitConsensusReached emits a summary event after conflict resolution.
func (e *EventEmitter) EmitConsensusReached(
	ctx context.Context,
	conflicts []domain.ConflictAnalysis,
	resolutions domain.ResolutionMap,
	escalations []Escalation,
	wfCtx activity.WorkflowContext,
) {
	payload, err := json.Marshal(consensusReachedPayload{
		TotalConflicts: len(conflicts),
		Resolved:       resolutions.Len(),
		Escalated:      len(escalations),
		ResolvedAt:     time.Now().UTC(),
	})
	if err != nil {
		activity.SafeLogError(ctx, "Failed to marshal consensus event", "error", err)
		return
	}

	idemKey := fmt.Sprintf("%s-%s-consensus-reached", wfCtx.WorkflowID, wfCtx.RunID)
	e.base.EmitEventSafe(ctx, newEnvelope(EventTypeConsensusReached, idemKey, wfCtx, payload),
		fmt.Sprintf("ConsensusReached[%s]", wfCtx.WorkflowID))
}

// newEnvelope builds an event envelope with deterministic IDs derived from
// the idempotency key.
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
