package govern

import (
	"fmt"
	"sort"

	"github.com/alawein/ringmaster/pkg/models"
)

// Evaluate compares a summary against governance thresholds and returns the
// compliance verdict. Absent (nil) thresholds are never evaluated; no
// default is substituted. Violations are deterministic: per-agent checks
// are emitted in sorted agent order.
func Evaluate(summary models.Summary, g models.Governance) models.Compliance {
	var violations []string

	if g.MinSuccessRate != nil && summary.SuccessRate < *g.MinSuccessRate {
		violations = append(violations, fmt.Sprintf(
			"success rate %.2f below required minimum %.2f",
			summary.SuccessRate, *g.MinSuccessRate))
	}

	if g.MaxErrorRate != nil && summary.ErrorRate > *g.MaxErrorRate {
		violations = append(violations, fmt.Sprintf(
			"error rate %.2f above allowed maximum %.2f",
			summary.ErrorRate, *g.MaxErrorRate))
	}

	if g.MaxTimeoutsPerAgent != nil {
		agents := make([]string, 0, len(summary.PerAgent))
		for agent := range summary.PerAgent {
			agents = append(agents, agent)
		}
		sort.Strings(agents)
		for _, agent := range agents {
			if counts := summary.PerAgent[agent]; counts.Timeout > *g.MaxTimeoutsPerAgent {
				violations = append(violations, fmt.Sprintf(
					"agent %s: %d timeouts exceed allowed maximum %d",
					agent, counts.Timeout, *g.MaxTimeoutsPerAgent))
			}
		}
	}

	return models.Compliance{
		Passed:     len(violations) == 0,
		Violations: violations,
	}
}
