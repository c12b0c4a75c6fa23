package agents

import (
	"context"
	"fmt"

	"github.com/alawein/ringmaster/pkg/models"
)

// BuiltinRegistry assembles the registry of agents shipped with the binary:
// "command", "probe" and "llm". The llm agent is registered unconditionally
// but only constructed when credentials are available; without them it
// reports a clean application error instead of failing registry setup, so
// workflows that never touch it are unaffected.
func BuiltinRegistry(llm LLMConfig) *Registry {
	r := NewRegistry()
	r.Register("command", NewCommandAgent(NewExecRunner()))
	r.Register("probe", NewProbeAgent())

	agent, err := NewLLMAgent(llm)
	if err != nil {
		r.Register("llm", RunnerFunc(func(ctx context.Context, task models.AgentTask) (any, error) {
			return nil, fmt.Errorf("llm agent unavailable: %w", err)
		}))
	} else {
		r.Register("llm", agent)
	}
	return r
}
