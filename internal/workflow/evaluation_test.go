package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-accord/internal/consensus"
	"github.com/ahrav/go-accord/internal/domain"
)

func registerStubActivities(env *testsuite.TestWorkflowEnvironment, batch *domain.BatchResult, resolved *consensus.ResolveOutput) {
	env.RegisterActivityWithOptions(
		func(_ context.Context, _ domain.EvaluationInput) (*domain.BatchResult, error) {
			return batch, nil
		},
		activity.RegisterOptions{Name: ActivityEvaluateBatch},
	)
	env.RegisterActivityWithOptions(
		func(_ context.Context, _ consensus.ResolveInput) (*consensus.ResolveOutput, error) {
			return resolved, nil
		},
		activity.RegisterOptions{Name: ActivityResolveConsensus},
	)
}

func sampleBatch() *domain.BatchResult {
	return &domain.BatchResult{
		Outcomes: []domain.EvaluationOutcome{
			{
				PlanName:  "PlanA",
				Status:    domain.StatusCompleted,
				Evaluator: "Primary Judge (Gemini)",
				LLMUsed:   "gemini",
				Content:   "evaluation text",
				Success:   true,
				Timestamp: time.Now(),
			},
		},
		Completed: 1,
	}
}

func sampleResolved() *consensus.ResolveOutput {
	resolutions := make(domain.ResolutionMap)
	resolutions.Set("PlanA", "Strategic Prioritization", 7.85)
	return &consensus.ResolveOutput{
		Conflicts: []domain.ConflictAnalysis{
			{
				PlanName:       "PlanA",
				Criterion:      "Strategic Prioritization",
				PrimaryScore:   8.0,
				SecondaryScore: 7.7,
				Difference:     0.3,
				Severity:       domain.SeverityLow,
			},
		},
		Resolutions: resolutions,
		Report:      "# Consensus Report",
	}
}

func sampleEvaluations() []domain.PlanEvaluation {
	return []domain.PlanEvaluation{
		{
			PlanName: "PlanA",
			JudgeID:  domain.JudgePrimary,
			Scores: []domain.ScoredCriterion{
				{Criterion: "Strategic Prioritization", Score: 8.0},
			},
		},
		{
			PlanName: "PlanA",
			JudgeID:  domain.JudgeSecondary,
			Scores: []domain.ScoredCriterion{
				{Criterion: "Strategic Prioritization", Score: 7.7},
			},
		},
	}
}

func TestConsensusEvaluationWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("both stages run for a full request", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		req := ConsensusRequest{
			Batch: domain.EvaluationInput{
				Plans: []domain.Plan{{Name: "PlanA", Content: "fix alt text"}},
			},
			Evaluations: sampleEvaluations(),
		}

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, req)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result ConsensusResult
		require.NoError(t, env.GetWorkflowResult(&result))
		require.NotNil(t, result.Batch)
		assert.Equal(t, 1, result.Batch.Completed)
		require.NotNil(t, result.Consensus)
		assert.Len(t, result.Consensus.Conflicts, 1)
		assert.Equal(t, "# Consensus Report", result.Consensus.Report)
	})

	t.Run("batch only request skips consensus stage", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		req := ConsensusRequest{
			Batch: domain.EvaluationInput{
				Plans: []domain.Plan{{Name: "PlanA", Content: "fix alt text"}},
			},
		}

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, req)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result ConsensusResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.NotNil(t, result.Batch)
		assert.Nil(t, result.Consensus)
	})

	t.Run("consensus only request skips batch stage", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		req := ConsensusRequest{Evaluations: sampleEvaluations()}

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, req)

		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result ConsensusResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Nil(t, result.Batch)
		assert.NotNil(t, result.Consensus)
	})

	t.Run("empty request fails validation", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, ConsensusRequest{})

		require.True(t, env.IsWorkflowCompleted())
		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
		assert.True(t, appErr.NonRetryable())
	})

	t.Run("invalid plan fails validation", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		req := ConsensusRequest{
			Batch: domain.EvaluationInput{
				Plans: []domain.Plan{{Name: "PlanA"}}, // no content
			},
		}

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, req)

		require.True(t, env.IsWorkflowCompleted())
		err := env.GetWorkflowError()
		require.Error(t, err)

		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
	})

	t.Run("progress query reports completion", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		registerStubActivities(env, sampleBatch(), sampleResolved())

		req := ConsensusRequest{
			Batch: domain.EvaluationInput{
				Plans: []domain.Plan{{Name: "PlanA", Content: "fix alt text"}},
			},
		}

		env.ExecuteWorkflow(ConsensusEvaluationWorkflow, req)
		require.True(t, env.IsWorkflowCompleted())

		value, err := env.QueryWorkflow(ProgressQuery)
		require.NoError(t, err)

		var progress Progress
		require.NoError(t, value.Get(&progress))
		assert.Equal(t, "completed", progress.Stage)
		assert.Equal(t, 1, progress.Completed)
	})
}
