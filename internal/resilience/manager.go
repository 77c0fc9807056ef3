package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahrav/go-accord/internal/domain"
	"github.com/ahrav/go-accord/internal/llm"
	"github.com/ahrav/go-accord/internal/llm/configuration"
)

// probePrompt is the canned prompt used for liveness checks. Probes go
// through the judge's own invoke path directly, without the guard: a single
// attempt, no retries.
const probePrompt = "Hello, this is a connection test. Respond briefly to confirm availability."

// llmUsedBoth marks NA outcomes where neither judge could serve the plan.
const llmUsedBoth = "both"

// Manager orchestrates dual-judge evaluation with fallback.
// For each plan it tries the primary judge, falls back to the secondary,
// and emits a standardized NA outcome when both are unavailable. Batch
// evaluation is strictly sequential: a plan's secondary attempt never starts
// before its primary outcome is known, and plans are processed in input order.
type Manager struct {
	config *configuration.Config
	guard  *llm.Guard

	clients  map[domain.JudgeID]llm.Client
	statuses map[domain.JudgeID]*LLMStatus

	stats  *sessionStats
	logger *slog.Logger

	// now is the clock source, swapped in tests.
	now func() time.Time
}

// NewManager creates a resilience manager for the two judge clients.
// Both statuses start available; callers refresh them with CheckAvailability
// before a batch or rely on the optimistic default for single-plan calls.
func NewManager(cfg *configuration.Config, primary, secondary llm.Client) *Manager {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	return &Manager{
		config: cfg,
		guard:  llm.NewGuard(cfg.Retry),
		clients: map[domain.JudgeID]llm.Client{
			domain.JudgePrimary:   primary,
			domain.JudgeSecondary: secondary,
		},
		statuses: map[domain.JudgeID]*LLMStatus{
			domain.JudgePrimary:   NewLLMStatus(string(domain.JudgePrimary)),
			domain.JudgeSecondary: NewLLMStatus(string(domain.JudgeSecondary)),
		},
		stats:  &sessionStats{},
		logger: slog.Default().With("component", "resilience_manager"),
		now:    time.Now,
	}
}

// CheckAvailability probes both judge endpoints with the canned prompt and
// updates their status records. Probe failures are caught and recorded,
// never propagated; the caller decides whether zero live judges is fatal.
func (m *Manager) CheckAvailability(ctx context.Context) map[domain.JudgeID]bool {
	result := make(map[domain.JudgeID]bool, len(m.clients))

	for _, judge := range []domain.JudgeID{domain.JudgePrimary, domain.JudgeSecondary} {
		client := m.clients[judge]
		status := m.statuses[judge]

		if client == nil {
			status.RecordFailure(m.now(), "no client configured")
			result[judge] = false
			continue
		}

		if _, err := client.Invoke(ctx, probePrompt); err != nil {
			m.logger.Warn("availability probe failed", "llm", judge, "error", err)
			status.RecordFailure(m.now(), err.Error())
			result[judge] = false
			continue
		}

		status.RecordSuccess(m.now())
		result[judge] = true
	}

	return result
}

// EvaluatePlanWithFallback evaluates one plan: primary judge first, then
// secondary, then a standardized NA outcome. Judge failures update the
// corresponding status record but never escape as errors.
func (m *Manager) EvaluatePlanWithFallback(ctx context.Context, planName, planContent, auditContext string) domain.EvaluationOutcome {
	prompt := buildEvaluationPrompt(planName, planContent, auditContext)

	var lastReason string
	lastLabel := "Unavailable"

	for _, judge := range []domain.JudgeID{domain.JudgePrimary, domain.JudgeSecondary} {
		status := m.statuses[judge]
		if !status.IsAvailable() {
			continue
		}

		client := m.clients[judge]
		if client == nil {
			continue
		}

		result := m.guard.Invoke(ctx, client, prompt, string(judge))
		if result.Success {
			status.RecordSuccess(m.now())
			return domain.EvaluationOutcome{
				PlanName:  planName,
				Status:    domain.StatusCompleted,
				Evaluator: judge.DisplayName(),
				LLMUsed:   string(judge),
				Content:   result.Content,
				Success:   true,
				Timestamp: m.now(),
			}
		}

		status.RecordFailure(m.now(), result.Error)
		lastReason = result.Error
		lastLabel = string(judge)
		m.logger.Warn("judge evaluation failed, falling back",
			"plan", planName, "llm", judge,
			"error_type", result.ErrorType, "attempts", result.Attempt)
	}

	m.logger.Error("no judge could evaluate plan", "plan", planName, "reason", lastReason)
	return domain.EvaluationOutcome{
		PlanName:  planName,
		Status:    domain.StatusNA,
		Evaluator: lastLabel + " Judge",
		LLMUsed:   llmUsedBoth,
		NAReason:  domain.TruncateNAReason(lastReason),
		Success:   false,
		Timestamp: m.now(),
	}
}

// ExecuteWithFallback evaluates every plan in the input sequentially.
// It refreshes availability once up front and hard-stops with
// ErrNoLLMAvailable when fewer than MinimumLLMRequirement endpoints are
// live. Individual NA plans never abort the batch; they are recorded and
// the batch continues. Cancellation is honored between plans so a caller's
// cancel never leaves an LLM call orphaned mid-batch.
func (m *Manager) ExecuteWithFallback(ctx context.Context, input domain.EvaluationInput) (*domain.BatchResult, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid evaluation input: %w", err)
	}

	availability := m.CheckAvailability(ctx)
	live := 0
	for _, ok := range availability {
		if ok {
			live++
		}
	}
	if live < m.config.MinimumLLMRequirement {
		return nil, fmt.Errorf("%w: %d available, %d required",
			domain.ErrNoLLMAvailable, live, m.config.MinimumLLMRequirement)
	}

	result := &domain.BatchResult{
		Outcomes: make([]domain.EvaluationOutcome, 0, len(input.Plans)),
	}

	for _, plan := range input.Plans {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		outcome := m.EvaluatePlanWithFallback(ctx, plan.Name, plan.Content, input.AuditContext)
		result.Outcomes = append(result.Outcomes, outcome)

		m.stats.totalEvaluations.Add(1)
		switch {
		case outcome.Success:
			result.Completed++
			m.stats.successfulEvaluations.Add(1)
		case outcome.IsNA():
			result.NACount++
			m.stats.naEvaluations.Add(1)
		default:
			result.Failed++
		}
	}

	if result.Completed < len(input.Plans) {
		result.PartialEvaluation = true
		m.stats.partialBatches.Add(1)
	}

	m.logger.Info("batch evaluation finished",
		"plans", len(input.Plans),
		"completed", result.Completed,
		"na", result.NACount,
		"partial", result.PartialEvaluation)

	return result, nil
}

// Status returns a snapshot of one judge's health record.
func (m *Manager) Status(judge domain.JudgeID) StatusSnapshot {
	if status, ok := m.statuses[judge]; ok {
		return status.Snapshot()
	}
	return StatusSnapshot{LLMType: string(judge)}
}

// Stats returns a snapshot of the session evaluation counters.
func (m *Manager) Stats() Stats { return m.stats.snapshot() }

// Reset clears the session counters and every judge's failure state.
// Explicit operator action; nothing resets implicitly on process lifetime.
func (m *Manager) Reset() {
	m.stats.reset()
	for _, status := range m.statuses {
		status.Reset()
	}
}
