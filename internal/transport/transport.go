// Package transport provides the three interchangeable execution
// strategies for workflow runs: local (in-process policy engine),
// protocol (external agent-protocol server) and managed (hosted backend
// with local fallback). All adapters return results in the same shape so
// callers never branch on transport.
package transport

import (
	"context"
	"fmt"

	"github.com/alawein/ringmaster/internal/agents"
	"github.com/alawein/ringmaster/internal/orchestrator"
	"github.com/alawein/ringmaster/pkg/models"
)

// Transport executes a workflow's task list. Implementations must return
// exactly one result per task; task-level failures are surfaced in result
// statuses, never as panics or run aborts. If the adapter itself cannot be
// reached, it synthesizes error results for every remaining task.
type Transport interface {
	Execute(ctx context.Context, tasks []models.AgentTask, ec models.ExecutionContext, policy models.Policy) []models.AgentResult
}

// Deps carries the collaborators adapters need. Runner backs the local
// transport (and the managed transport's fallback).
type Deps struct {
	Runner   agents.Runner
	Protocol ProtocolConfig
	Managed  ManagedConfig
}

// Select picks the adapter for a workflow's transport once at load time.
// An unknown transport is a programmer error and fails synchronously.
func Select(t models.Transport, deps Deps) (Transport, error) {
	switch t {
	case models.TransportLocal:
		return NewLocal(deps.Runner), nil
	case models.TransportProtocol:
		return NewProtocol(deps.Protocol), nil
	case models.TransportManaged:
		return NewManaged(deps.Managed, NewLocal(deps.Runner)), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", t)
	}
}

// failRemaining synthesizes error results for tasks that never executed
// because the transport itself failed.
func failRemaining(tasks []models.AgentTask, terr *orchestrator.TransportError) []models.AgentResult {
	results := make([]models.AgentResult, 0, len(tasks))
	for _, task := range tasks {
		results = append(results, models.AgentResult{
			Task:     task.Name,
			Status:   models.StatusError,
			Error:    terr.Error(),
			Attempts: 0,
		})
	}
	return results
}
