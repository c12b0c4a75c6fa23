package models

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// AgentTask is a named unit of work with structured input. It is the atomic
// unit the orchestrator schedules. Tasks are immutable once constructed.
type AgentTask struct {
	// Name identifies the agent that executes this task.
	Name string `json:"name" yaml:"name"`
	// Input is the structured payload handed to the agent.
	Input map[string]any `json:"input,omitempty" yaml:"input,omitempty"`
}

// Key returns the identity used for caching and circuit-breaking:
// the agent name combined with a stable hash of the input.
// Structurally equal inputs always produce the same key.
func (t AgentTask) Key() string {
	return fmt.Sprintf("%s:%016x", t.Name, t.InputHash())
}

// InputHash computes a stable FNV-64a hash over the canonical JSON encoding
// of the task input. encoding/json sorts map keys, so the encoding is
// deterministic for structurally equal inputs.
func (t AgentTask) InputHash() uint64 {
	h := fnv.New64a()
	if len(t.Input) > 0 {
		if data, err := json.Marshal(t.Input); err == nil {
			h.Write(data)
		}
	}
	return h.Sum64()
}

// Validate checks that the task is well-formed.
func (t AgentTask) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("agent task requires a name")
	}
	return nil
}
