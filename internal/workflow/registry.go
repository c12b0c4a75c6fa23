package workflow

import (
	"fmt"
	"sort"
	"sync"

	"github.com/alawein/ringmaster/pkg/models"
)

// Registry holds the known workflow definitions, builtins plus any loaded
// from a workflows directory. Loaded definitions shadow builtins with the
// same name. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]models.WorkflowDefinition
}

// NewRegistry creates a registry seeded with the built-in workflows.
func NewRegistry() *Registry {
	r := &Registry{definitions: make(map[string]models.WorkflowDefinition)}
	for _, def := range Builtins() {
		r.definitions[def.Name] = def
	}
	return r
}

// Add validates def and stores it, replacing any existing definition with
// the same name. Validate errors already carry the workflow name.
func (r *Registry) Add(def models.WorkflowDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Name] = def
	return nil
}

// Get returns the definition for name.
func (r *Registry) Get(name string) (models.WorkflowDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[name]
	if !ok {
		return models.WorkflowDefinition{}, fmt.Errorf("unknown workflow %q (run 'ringmaster workflows' to list)", name)
	}
	return def, nil
}

// List returns all definitions sorted by name.
func (r *Registry) List() []models.WorkflowDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.WorkflowDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reload replaces every previously loaded definition with the given set,
// keeping builtins for names the set does not cover.
func (r *Registry) Reload(defs []models.WorkflowDefinition) error {
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions = make(map[string]models.WorkflowDefinition)
	for _, def := range Builtins() {
		r.definitions[def.Name] = def
	}
	for _, def := range defs {
		r.definitions[def.Name] = def
	}
	return nil
}
