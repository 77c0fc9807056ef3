// Package workflow orchestrates dual-judge plan evaluation and consensus
// resolution using Temporal workflows. It defines deterministic control flow
// with clean separation of concerns: Evaluate → Resolve → Report.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-accord/internal/consensus"
	"github.com/ahrav/go-accord/internal/domain"
)

// Activity names registered by the worker. Workflows reference activities
// by name so the worker side stays the single source of registration truth.
const (
	ActivityEvaluateBatch    = "EvaluateBatch"
	ActivityResolveConsensus = "ResolveConsensus"
)

// ProgressQuery is the query handler name for inspecting workflow progress.
const ProgressQuery = "progress"

// ConsensusRequest is the workflow input. The two stages consume different
// shapes: the batch stage sends raw plan text to the judges, while the
// consensus stage reconciles structured per-criterion scores supplied by the
// caller. Judge responses are free text and are never parsed into scores
// here.
type ConsensusRequest struct {
	// Batch holds the plans to evaluate against the judge endpoints.
	// Empty plans skip the evaluation stage.
	Batch domain.EvaluationInput `json:"batch"`

	// Evaluations holds the structured dual-judge scores to reconcile.
	// Empty evaluations skip the consensus stage.
	Evaluations []domain.PlanEvaluation `json:"evaluations,omitempty"`
}

// ConsensusResult is the workflow output: the per-plan evaluation outcomes
// plus the consensus resolution over both judges' scores. Either half may be
// nil when the corresponding stage was skipped.
type ConsensusResult struct {
	Batch     *domain.BatchResult      `json:"batch,omitempty"`
	Consensus *consensus.ResolveOutput `json:"consensus,omitempty"`
}

// Progress reports where the workflow currently is for query handlers.
type Progress struct {
	Stage     string `json:"stage"`
	Completed int    `json:"completed"`
	NACount   int    `json:"na_count"`
}

// ConsensusEvaluationWorkflow evaluates plans against both judges with
// availability-aware fallback, then resolves score conflicts between the
// judges into a consensus report. Each stage runs only when its input is
// present, so the workflow also serves pure-evaluation and pure-consensus
// callers.
func ConsensusEvaluationWorkflow(
	ctx workflow.Context,
	req ConsensusRequest,
) (*ConsensusResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "consensus-evaluation.v", workflow.DefaultVersion, currentVersion)

	if len(req.Batch.Plans) == 0 && len(req.Evaluations) == 0 {
		return nil, temporal.NewNonRetryableApplicationError(
			"request has neither plans nor evaluations",
			"Validation",
			nil,
		)
	}
	if len(req.Batch.Plans) > 0 {
		if err := req.Batch.Validate(); err != nil {
			return nil, temporal.NewNonRetryableApplicationError(
				"invalid evaluation input",
				"Validation",
				err,
			)
		}
	}

	progress := Progress{Stage: "evaluating"}
	if err := workflow.SetQueryHandler(ctx, ProgressQuery, func() (Progress, error) {
		return progress, nil
	}); err != nil {
		return nil, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	logger.Info("Starting consensus evaluation",
		"plans", len(req.Batch.Plans),
		"evaluations", len(req.Evaluations))

	result := &ConsensusResult{}

	if len(req.Batch.Plans) > 0 {
		var batch domain.BatchResult
		if err := workflow.ExecuteActivity(ctx, ActivityEvaluateBatch, req.Batch).Get(ctx, &batch); err != nil {
			return nil, err
		}
		result.Batch = &batch
		progress = Progress{Stage: "resolving", Completed: batch.Completed, NACount: batch.NACount}
	}

	if len(req.Evaluations) > 0 {
		progress.Stage = "resolving"
		var resolved consensus.ResolveOutput
		err := workflow.ExecuteActivity(ctx, ActivityResolveConsensus, consensus.ResolveInput{
			Evaluations: req.Evaluations,
		}).Get(ctx, &resolved)
		if err != nil {
			return nil, err
		}
		result.Consensus = &resolved
		logger.Info("Consensus stage completed",
			"conflicts", len(resolved.Conflicts),
			"escalations", len(resolved.Escalations))
	}

	progress.Stage = "completed"
	return result, nil
}
