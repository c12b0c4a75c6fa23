// Package workflow manages workflow definitions: the built-in set, YAML
// definitions loaded from a directory, and live reload of that directory.
package workflow

import "github.com/alawein/ringmaster/pkg/models"

// Builtins returns the workflow definitions that ship with the tool. The
// returned slice is freshly allocated on each call so callers may mutate
// their copy.
func Builtins() []models.WorkflowDefinition {
	return []models.WorkflowDefinition{
		{
			Name:        "repo-audit",
			Description: "Structural audit of a repository: layout probes plus a git status check.",
			Transport:   models.TransportLocal,
			Policy:      models.DefaultPolicy(),
			Tasks: []models.AgentTask{
				{Name: "probe", Input: map[string]any{"path": "go.mod"}},
				{Name: "probe", Input: map[string]any{"path": "README.md"}},
				{Name: "probe", Input: map[string]any{"path": ".git", "must_exist": true}},
				{Name: "command", Input: map[string]any{"command": "git status --porcelain"}},
			},
		},
		{
			Name:        "dependency-governance",
			Description: "Dependency hygiene checks with strict failure thresholds.",
			Transport:   models.TransportLocal,
			Policy: models.Policy{
				TimeoutMs:        60000,
				MaxRetries:       1,
				BackoffMs:        500,
				CacheTTLMs:       600000,
				BreakerThreshold: 2,
				Governance: models.Governance{
					MinSuccessRate:      models.Float64Ptr(1.0),
					MaxTimeoutsPerAgent: models.IntPtr(0),
				},
			},
			Tasks: []models.AgentTask{
				{Name: "probe", Input: map[string]any{"path": "go.sum", "must_exist": true}},
				{Name: "command", Input: map[string]any{"command": "go list -m all"}},
				{Name: "command", Input: map[string]any{"command": "go mod verify"}},
			},
		},
		{
			Name:        "compliance-smoke",
			Description: "Fast smoke pass used to exercise governance thresholds.",
			Transport:   models.TransportLocal,
			Policy: models.Policy{
				TimeoutMs:        5000,
				MaxRetries:       0,
				BackoffMs:        100,
				CacheTTLMs:       0,
				BreakerThreshold: 3,
				Governance: models.Governance{
					MinSuccessRate: models.Float64Ptr(0.75),
					MaxErrorRate:   models.Float64Ptr(0.25),
				},
			},
			Tasks: []models.AgentTask{
				{Name: "probe", Input: map[string]any{"path": "."}},
				{Name: "command", Input: map[string]any{"command": "true"}},
			},
		},
	}
}
