package models

import "time"

// StatusCounts tallies results by terminal status.
type StatusCounts struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Error   int `json:"error"`
	Timeout int `json:"timeout"`
	Skipped int `json:"skipped"`
}

// Add records one result status in the tally.
func (c *StatusCounts) Add(s Status) {
	c.Total++
	switch s {
	case StatusSuccess:
		c.Success++
	case StatusError:
		c.Error++
	case StatusTimeout:
		c.Timeout++
	case StatusSkipped:
		c.Skipped++
	}
}

// Summary is the derived aggregate view of a run's results: per-agent and
// global tallies plus global outcome rates. It is recomputed fresh from an
// AgentResult list and never persisted incrementally.
type Summary struct {
	PerAgent    map[string]StatusCounts `json:"per_agent"`
	Totals      StatusCounts            `json:"totals"`
	SuccessRate float64                 `json:"success_rate"`
	ErrorRate   float64                 `json:"error_rate"`
	TimeoutRate float64                 `json:"timeout_rate"`
	SkippedRate float64                 `json:"skipped_rate"`
}

// Compliance is the verdict of evaluating a Summary against governance
// thresholds. Passed is true exactly when Violations is empty.
type Compliance struct {
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations"`
}

// RunArtifact is the JSON payload persisted once per run: the inputs that
// produced the run plus its results, summary and compliance verdict.
type RunArtifact struct {
	RunID      string             `json:"run_id"`
	Label      string             `json:"label"`
	Workflow   string             `json:"workflow"`
	Transport  Transport          `json:"transport"`
	Policy     Policy             `json:"policy"`
	Tasks      []AgentTask        `json:"tasks"`
	Results    []AgentResult      `json:"results"`
	Summary    Summary            `json:"summary"`
	Compliance Compliance         `json:"compliance"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}
