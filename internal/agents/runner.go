// Package agents defines the contract an agent must satisfy to be
// schedulable by the orchestrator, plus the builtin runners shipped with
// the ringmaster binary. The orchestrator never depends on what an agent
// computes, only on this contract.
package agents

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alawein/ringmaster/pkg/models"
)

// Runner executes one agent task and returns its output. Implementations
// must honor ctx cancellation: the orchestrator bounds every attempt with
// a deadline derived from the workflow policy.
type Runner interface {
	Run(ctx context.Context, task models.AgentTask) (any, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, task models.AgentTask) (any, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context, task models.AgentTask) (any, error) {
	return f(ctx, task)
}

// Registry dispatches tasks to named runners. It is itself a Runner, so an
// orchestrator engine can be handed a whole registry or a single runner
// interchangeably.
type Registry struct {
	mu      sync.RWMutex
	runners map[string]Runner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Runner)}
}

// Register binds a runner to an agent name, replacing any previous binding.
func (r *Registry) Register(name string, runner Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runners[name] = runner
}

// Lookup returns the runner bound to name.
func (r *Registry) Lookup(name string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runner, ok := r.runners[name]
	return runner, ok
}

// Names returns the registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.runners))
	for name := range r.runners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run dispatches the task to the runner registered under the task's name.
// An unknown agent name is an application error, not a programmer error:
// it is surfaced in the result, never as a panic or a run abort.
func (r *Registry) Run(ctx context.Context, task models.AgentTask) (any, error) {
	runner, ok := r.Lookup(task.Name)
	if !ok {
		return nil, fmt.Errorf("no agent registered for %q", task.Name)
	}
	return runner.Run(ctx, task)
}

// Verify Registry implements Runner at compile time.
var _ Runner = (*Registry)(nil)
