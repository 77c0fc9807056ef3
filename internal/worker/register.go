package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/go-accord/internal/consensus"
	"github.com/ahrav/go-accord/internal/evaluation"
	"github.com/ahrav/go-accord/internal/resilience"
	"github.com/ahrav/go-accord/internal/workflow"
	"github.com/ahrav/go-accord/pkg/activity"
	"github.com/ahrav/go-accord/pkg/events"
)

// RegisterAll registers all workflows and activities with the Temporal
// worker. Must be called once during worker initialization before starting
// the worker; registration is not thread-safe.
//
// Domain activity instances share the base infrastructure for event emission
// and logging. Events flow to the provided sink; pass a NoOp sink when no
// downstream consumer exists.
func RegisterAll(w sdkworker.Worker, manager *resilience.Manager, engine *consensus.Engine, sink events.EventSink) {
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}

	base := activity.NewBaseActivities(sink)

	evaluationActivities := evaluation.NewActivities(base, manager)
	consensusActivities := consensus.NewActivities(base, engine)

	w.RegisterWorkflow(workflow.ConsensusEvaluationWorkflow)

	w.RegisterActivity(evaluationActivities.EvaluateBatch)
	w.RegisterActivity(evaluationActivities.ResetSession)
	w.RegisterActivity(consensusActivities.ResolveConsensus)
}
