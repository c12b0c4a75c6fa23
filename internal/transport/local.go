package transport

import (
	"context"

	"github.com/alawein/ringmaster/internal/agents"
	"github.com/alawein/ringmaster/internal/orchestrator"
	"github.com/alawein/ringmaster/pkg/models"
)

// Local executes tasks in-process with full policy enforcement: it is the
// orchestrator core behind a Transport face. A fresh engine is constructed
// per Execute call so cache and breaker state never leak across runs.
type Local struct {
	runner agents.Runner
}

// NewLocal creates the local transport over the given agent runner.
func NewLocal(runner agents.Runner) *Local {
	return &Local{runner: runner}
}

// Execute implements Transport.
func (l *Local) Execute(ctx context.Context, tasks []models.AgentTask, ec models.ExecutionContext, policy models.Policy) []models.AgentResult {
	engine, err := orchestrator.NewEngine(l.runner, policy)
	if err != nil {
		return failRemaining(tasks, &orchestrator.TransportError{Transport: "local", Err: err})
	}
	return engine.Run(ctx, tasks, ec)
}

var _ Transport = (*Local)(nil)
