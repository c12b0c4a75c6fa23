package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext is the per-run identity threaded through every task
// invocation for correlation. A context is created fresh per workflow run
// and never reused: cache and circuit-breaker state is attributed to it.
type ExecutionContext struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`
	// Label is the caller-supplied name for the run, typically the
	// repository path or project name.
	Label string `json:"label"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}

// NewExecutionContext creates a fresh context for one workflow run. The run
// ID is derived from the label, a timestamp and a random suffix so that
// concurrent runs over the same label never collide.
func NewExecutionContext(label string) ExecutionContext {
	now := time.Now().UTC()
	return ExecutionContext{
		RunID:     fmt.Sprintf("%s-%s-%s", slugify(label), now.Format("20060102T150405"), uuid.NewString()[:8]),
		Label:     label,
		StartedAt: now,
	}
}

// slugify reduces a label to a short identifier-safe form for run IDs.
func slugify(label string) string {
	if label == "" {
		return "run"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '/' || r == '\\' || r == ' ' || r == '.' || r == '_' || r == '-':
			b.WriteRune('-')
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "run"
	}
	if len(s) > 48 {
		s = s[len(s)-48:]
		s = strings.TrimLeft(s, "-")
	}
	return s
}
