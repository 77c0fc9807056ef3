package consensus

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/ahrav/go-accord/internal/domain"
)

// strategyForSeverity names the resolution strategy that handles a tier.
func strategyForSeverity(severity domain.Severity) string {
	switch severity {
	case domain.SeverityLow:
		return strategyWeightedAverage
	case domain.SeverityMedium:
		return strategyEvidenceBased
	case domain.SeverityHigh:
		return strategyExpertMediation
	default:
		return strategyHumanEscalation
	}
}

// GenerateReport renders a plain-text consensus summary of the analyzed
// conflicts and their resolutions. Pure formatting over already-computed
// inputs; nothing is recomputed or re-resolved here.
func (e *Engine) GenerateReport(conflicts []domain.ConflictAnalysis, resolutions domain.ResolutionMap) string {
	var b strings.Builder

	b.WriteString("# Consensus Report\n\n")

	autoResolved := 0
	humanReview := 0
	bySeverity := map[domain.Severity]int{}
	differences := make([]float64, 0, len(conflicts))

	for _, c := range conflicts {
		bySeverity[c.Severity]++
		differences = append(differences, c.Difference)
		if c.Severity == domain.SeverityCritical {
			humanReview++
		} else {
			autoResolved++
		}
	}

	fmt.Fprintf(&b, "Total conflicts: %d\n", len(conflicts))
	fmt.Fprintf(&b, "Auto-resolved: %d\n", autoResolved)
	fmt.Fprintf(&b, "Requiring human review: %d\n\n", humanReview)

	b.WriteString("## Severity breakdown\n\n")
	for _, severity := range []domain.Severity{
		domain.SeverityLow, domain.SeverityMedium, domain.SeverityHigh, domain.SeverityCritical,
	} {
		fmt.Fprintf(&b, "- %s: %d\n", severity, bySeverity[severity])
	}
	b.WriteString("\n")

	if len(differences) > 0 {
		b.WriteString("## Score difference statistics\n\n")
		if mean, err := stats.Mean(differences); err == nil {
			fmt.Fprintf(&b, "- mean: %.2f\n", mean)
		}
		if median, err := stats.Median(differences); err == nil {
			fmt.Fprintf(&b, "- median: %.2f\n", median)
		}
		if stddev, err := stats.StandardDeviation(differences); err == nil {
			fmt.Fprintf(&b, "- stddev: %.2f\n", stddev)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Conflicts\n\n")
	for _, c := range conflicts {
		strategy := strategyForSeverity(c.Severity)
		if resolved, ok := resolutions.Get(c.PlanName, c.Criterion); ok {
			fmt.Fprintf(&b, "- %s / %s: %.2f vs %.2f (diff %.2f, %s) -> %.2f via %s\n",
				c.PlanName, c.Criterion, c.PrimaryScore, c.SecondaryScore,
				c.Difference, c.Severity, resolved, strategy)
			continue
		}
		fmt.Fprintf(&b, "- %s / %s: %.2f vs %.2f (diff %.2f, %s) -> UNRESOLVED, requires human review (%s)\n",
			c.PlanName, c.Criterion, c.PrimaryScore, c.SecondaryScore,
			c.Difference, c.Severity, strategy)
	}
	b.WriteString("\n")

	b.WriteString("## Judge performance analysis\n\n")
	fmt.Fprintf(&b, "Reliability weights: primary=%.2f, secondary=%.2f.\n",
		e.primaryWeight, e.secondaryWeight)
	b.WriteString("Per-judge performance tracking is not yet collected; this section is a placeholder.\n")

	return b.String()
}
