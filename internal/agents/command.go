package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/alawein/ringmaster/pkg/models"
)

// CommandAgent runs a shell command declared in the task input.
//
// Input schema:
//
//	command: string (required) — shell command, run through "sh -c"
//	dir:     string (optional) — working directory
//
// Output: {"output": string, "lines": int}. A non-zero exit is an
// application error carrying the command output for diagnosis.
type CommandAgent struct {
	runner CommandRunner
}

// NewCommandAgent creates a command agent backed by the given runner.
func NewCommandAgent(runner CommandRunner) *CommandAgent {
	return &CommandAgent{runner: runner}
}

// Run implements Runner.
func (a *CommandAgent) Run(ctx context.Context, task models.AgentTask) (any, error) {
	command, _ := task.Input["command"].(string)
	if command == "" {
		return nil, fmt.Errorf("command agent requires a %q input", "command")
	}
	dir, _ := task.Input["dir"].(string)

	out, err := a.runner.RunShell(ctx, dir, command)
	trimmed := strings.TrimRight(string(out), "\n")
	if err != nil {
		if trimmed != "" {
			return nil, fmt.Errorf("command failed: %w: %s", err, trimmed)
		}
		return nil, fmt.Errorf("command failed: %w", err)
	}

	lines := 0
	if trimmed != "" {
		lines = strings.Count(trimmed, "\n") + 1
	}
	return map[string]any{
		"output": trimmed,
		"lines":  lines,
	}, nil
}

var _ Runner = (*CommandAgent)(nil)
