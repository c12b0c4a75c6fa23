// Package govern reduces run results into aggregate statistics and judges
// them against governance thresholds. Both operations are pure functions:
// no side effects, no I/O.
package govern

import (
	"github.com/alawein/ringmaster/pkg/models"
)

// Summarize groups results by agent name, tallies outcomes per status and
// computes global rates. An empty result list yields a Summary with all
// counts and rates at zero, never NaN.
func Summarize(results []models.AgentResult) models.Summary {
	summary := models.Summary{
		PerAgent: make(map[string]models.StatusCounts),
	}

	for _, r := range results {
		counts := summary.PerAgent[r.Task]
		counts.Add(r.Status)
		summary.PerAgent[r.Task] = counts
		summary.Totals.Add(r.Status)
	}

	if summary.Totals.Total > 0 {
		total := float64(summary.Totals.Total)
		summary.SuccessRate = float64(summary.Totals.Success) / total
		summary.ErrorRate = float64(summary.Totals.Error) / total
		summary.TimeoutRate = float64(summary.Totals.Timeout) / total
		summary.SkippedRate = float64(summary.Totals.Skipped) / total
	}

	return summary
}
