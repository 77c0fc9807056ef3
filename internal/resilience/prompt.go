package resilience

import (
	"fmt"
	"strings"

	"github.com/ahrav/go-accord/internal/domain"
)

// Prompt interpolation limits. Plan content and audit context are truncated
// so a single oversized plan cannot blow the judge's context window.
const (
	maxPlanContentChars  = 3000
	maxAuditContextChars = 2000
)

// buildEvaluationPrompt renders the fixed evaluation prompt for one plan:
// plan name, truncated plan content and audit context, and the weighted
// rubric criteria the judge must score against.
func buildEvaluationPrompt(planName, planContent, auditContext string) string {
	var b strings.Builder

	b.WriteString("You are an accessibility remediation expert evaluating a remediation plan.\n\n")
	fmt.Fprintf(&b, "Plan: %s\n\n", planName)
	fmt.Fprintf(&b, "Plan content:\n%s\n\n", truncate(planContent, maxPlanContentChars))

	if auditContext != "" {
		fmt.Fprintf(&b, "Audit context:\n%s\n\n", truncate(auditContext, maxAuditContextChars))
	}

	b.WriteString("Score the plan 0-10 on each weighted criterion:\n")
	weights := domain.DefaultRubricWeights()
	for _, criterion := range domain.RubricCriteria() {
		fmt.Fprintf(&b, "- %s (%.0f%%)\n", criterion, weights[criterion]*100)
	}
	b.WriteString("\nProvide a score and rationale per criterion, then an overall score.\n")

	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
