// Package evaluation implements the Temporal activity for dual-judge batch
// plan evaluation, wrapping the resilience manager so judge outages degrade
// to NA outcomes instead of activity failures.
package evaluation

import (
	"context"
	"errors"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/internal/resilience"
	"github.com/ahrav/go-accord/pkg/activity"
)

// Activities handles evaluation-specific Temporal activities.
type Activities struct {
	activity.BaseActivities
	manager *resilience.Manager
	events  *EventEmitter
}

// NewActivities creates evaluation activities around a resilience manager.
func NewActivities(base activity.BaseActivities, manager *resilience.Manager) *Activities {
	return &Activities{
		BaseActivities: base,
		manager:        manager,
		events:         NewEventEmitter(base),
	}
}

// EvaluateBatch evaluates every plan in the input with primary-then-secondary
// fallback. Plans neither judge can serve come back as NA outcomes inside a
// successful result; the only failure modes are invalid input and zero live
// judge endpoints.
func (a *Activities) EvaluateBatch(
	ctx context.Context,
	input domain.EvaluationInput,
) (*domain.BatchResult, error) {
	if err := input.Validate(); err != nil {
		return nil, nonRetryable("EvaluateBatch", err, "invalid input")
	}

	wfCtx := a.GetWorkflowContext(ctx)
	activity.SafeLog(ctx, "Starting EvaluateBatch activity",
		"workflow_id", wfCtx.WorkflowID,
		"activity_id", wfCtx.ActivityID,
		"plans", len(input.Plans))

	activity.RecordHeartbeat(ctx, "availability check")

	result, err := a.manager.ExecuteWithFallback(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrNoLLMAvailable) {
			// Endpoints may recover; let the workflow retry policy decide.
			return nil, retryable("EvaluateBatch", err, "no LLM available")
		}
		return nil, nonRetryable("EvaluateBatch", err, "batch evaluation failed")
	}

	a.events.EmitBatchCompleted(ctx, result, wfCtx)

	activity.SafeLog(ctx, "EvaluateBatch completed",
		"completed", result.Completed,
		"na", result.NACount,
		"partial", result.PartialEvaluation)

	return result, nil
}

// ResetSession clears the manager's session counters and judge failure
// state. Exposed as an activity so operators can reset between runs.
func (a *Activities) ResetSession(ctx context.Context) error {
	a.manager.Reset()
	activity.SafeLog(ctx, "Evaluation session statistics reset")
	return nil
}

// Error helpers - wrap errors as Temporal application errors.

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
