package models

import "fmt"

// Transport selects the execution strategy used to run a workflow's tasks.
type Transport string

const (
	// TransportLocal executes tasks in-process with full policy enforcement.
	TransportLocal Transport = "local"
	// TransportProtocol delegates task execution to an external
	// agent-protocol (MCP) server.
	TransportProtocol Transport = "protocol"
	// TransportManaged delegates execution to a hosted backend, falling
	// back to local when credentials are absent.
	TransportManaged Transport = "managed"
)

// Valid returns true if the transport is a known value.
func (t Transport) Valid() bool {
	switch t {
	case TransportLocal, TransportProtocol, TransportManaged:
		return true
	default:
		return false
	}
}

// WorkflowDefinition declares a named, ordered list of agent tasks together
// with the transport and policy used to execute them. Definitions are loaded
// once per invocation and read-only afterward.
type WorkflowDefinition struct {
	// Name identifies the workflow.
	Name string `json:"name" yaml:"name"`
	// Description is an optional human-readable summary.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Transport is the execution strategy for this workflow.
	Transport Transport `json:"transport" yaml:"transport"`
	// Policy governs timeouts, retries, caching and circuit-breaking.
	Policy Policy `json:"policy" yaml:"policy"`
	// Tasks is the ordered task list. Duplicate agent names are legal;
	// within one run they share a circuit breaker.
	Tasks []AgentTask `json:"tasks" yaml:"tasks"`
}

// Validate checks that the definition is well-formed. It is the only place
// a malformed workflow is allowed to fail synchronously, before any task
// executes.
func (w WorkflowDefinition) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow requires a name")
	}
	if !w.Transport.Valid() {
		return fmt.Errorf("workflow %q: unknown transport %q", w.Name, w.Transport)
	}
	if len(w.Tasks) == 0 {
		return fmt.Errorf("workflow %q: requires at least one task", w.Name)
	}
	for i, task := range w.Tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("workflow %q: task %d: %w", w.Name, i, err)
		}
	}
	return nil
}
