package models

// Status is the terminal outcome of one agent task within a run.
type Status string

const (
	// StatusSuccess indicates the task returned a result.
	StatusSuccess Status = "success"
	// StatusError indicates the task executed but returned an
	// application error on its final attempt.
	StatusError Status = "error"
	// StatusTimeout indicates the final attempt exceeded the policy
	// timeout.
	StatusTimeout Status = "timeout"
	// StatusSkipped indicates the task was never attempted because the
	// agent's circuit breaker was open.
	StatusSkipped Status = "skipped"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusSuccess, StatusError, StatusTimeout, StatusSkipped:
		return true
	default:
		return false
	}
}

// AgentResult is the terminal record for one AgentTask in one run. Exactly
// one is produced per task; the result list is append-only and never
// mutated after creation.
type AgentResult struct {
	// Task is the agent name of the task this result belongs to.
	Task string `json:"task"`
	// Status is the terminal outcome.
	Status Status `json:"status"`
	// Output is the task's result payload, nil unless Status is success.
	Output any `json:"output,omitempty"`
	// Error holds the failure message for error/timeout/skipped results.
	Error string `json:"error,omitempty"`
	// Attempts is the number of execution attempts consumed. Cached and
	// skipped results carry 0; otherwise 1 <= Attempts <= MaxRetries+1.
	Attempts int `json:"attempts"`
	// DurationMs is the wall-clock time spent on this task in
	// milliseconds, across all attempts including backoff waits.
	DurationMs int64 `json:"duration_ms"`
	// Cached is true when the output was served from the result cache.
	Cached bool `json:"cached,omitempty"`
}
