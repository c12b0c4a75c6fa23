package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/alawein/ringmaster/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	tableStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// printStatus prints a colored status symbol and message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}

// statusColor maps a task status to a display color.
func statusColor(s models.Status) color.Attribute {
	switch s {
	case models.StatusSuccess:
		return color.FgGreen
	case models.StatusTimeout:
		return color.FgYellow
	case models.StatusSkipped:
		return color.FgCyan
	default:
		return color.FgRed
	}
}

// statusSymbol maps a task status to a display symbol.
func statusSymbol(s models.Status) string {
	switch s {
	case models.StatusSuccess:
		return "✓"
	case models.StatusTimeout:
		return "⏱"
	case models.StatusSkipped:
		return "⊘"
	default:
		return "✗"
	}
}

// renderResults prints one line per task result.
func renderResults(results []models.AgentResult) {
	for _, r := range results {
		line := fmt.Sprintf("%-20s %-8s attempts=%d %dms", r.Task, r.Status, r.Attempts, r.DurationMs)
		if r.Cached {
			line += " (cached)"
		}
		if r.Error != "" {
			line += "  " + r.Error
		}
		printStatus(statusSymbol(r.Status), line, statusColor(r.Status))
	}
}

// renderSummary prints the per-agent summary table and the compliance
// verdict.
func renderSummary(artifact models.RunArtifact) {
	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s · %s · %s", artifact.Workflow, artifact.Label, artifact.Transport)))

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %6s %8s %6s %8s %8s\n", "agent", "total", "success", "error", "timeout", "skipped")
	for _, agent := range sortedAgents(artifact.Summary) {
		c := artifact.Summary.PerAgent[agent]
		fmt.Fprintf(&b, "%-20s %6d %8d %6d %8d %8d\n", agent, c.Total, c.Success, c.Error, c.Timeout, c.Skipped)
	}
	totals := artifact.Summary.Totals
	fmt.Fprintf(&b, "%-20s %6d %8d %6d %8d %8d", labelStyle.Render("totals"), totals.Total, totals.Success, totals.Error, totals.Timeout, totals.Skipped)
	fmt.Println(tableStyle.Render(b.String()))

	fmt.Printf("%s  success %.0f%% · error %.0f%% · timeout %.0f%%\n",
		labelStyle.Render("rates"),
		artifact.Summary.SuccessRate*100, artifact.Summary.ErrorRate*100, artifact.Summary.TimeoutRate*100)

	if artifact.Compliance.Passed {
		fmt.Println(passStyle.Render("compliance: PASS"))
	} else {
		fmt.Println(failStyle.Render("compliance: FAIL"))
		for _, v := range artifact.Compliance.Violations {
			printStatus("✗", v, color.FgRed)
		}
	}
}

func sortedAgents(summary models.Summary) []string {
	agents := make([]string, 0, len(summary.PerAgent))
	for name := range summary.PerAgent {
		agents = append(agents, name)
	}
	sort.Strings(agents)
	return agents
}

// renderPlan prints what a run would do without executing it.
func renderPlan(def models.WorkflowDefinition, repoPath string) {
	fmt.Println(headerStyle.Render("plan: " + def.Name))
	fmt.Printf("%s %s\n", labelStyle.Render("transport"), def.Transport)
	if repoPath != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("target"), repoPath)
	}
	fmt.Printf("%s timeout=%dms retries=%d backoff=%dms cache_ttl=%dms breaker=%d\n",
		labelStyle.Render("policy"),
		def.Policy.TimeoutMs, def.Policy.MaxRetries, def.Policy.BackoffMs,
		def.Policy.CacheTTLMs, def.Policy.BreakerThreshold)
	for i, task := range def.Tasks {
		fmt.Printf("  %2d. %s %v\n", i+1, task.Name, task.Input)
	}
}
