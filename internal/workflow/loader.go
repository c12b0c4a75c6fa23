package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alawein/ringmaster/pkg/models"
)

// definitionYAML mirrors models.WorkflowDefinition for decoding. Policy
// fields are pointers so an omitted field can fall back to the default
// while an explicit zero is honored.
type definitionYAML struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Transport   models.Transport   `yaml:"transport"`
	Policy      *policyYAML        `yaml:"policy"`
	Tasks       []models.AgentTask `yaml:"tasks"`
}

type policyYAML struct {
	TimeoutMs        *int            `yaml:"timeout_ms"`
	MaxRetries       *int            `yaml:"max_retries"`
	BackoffMs        *int            `yaml:"backoff_ms"`
	CacheTTLMs       *int            `yaml:"cache_ttl_ms"`
	BreakerThreshold *int            `yaml:"breaker_threshold"`
	Governance       *governanceYAML `yaml:"governance"`
}

type governanceYAML struct {
	MinSuccessRate      *float64 `yaml:"min_success_rate"`
	MaxErrorRate        *float64 `yaml:"max_error_rate"`
	MaxTimeoutsPerAgent *int     `yaml:"max_timeouts_per_agent"`
}

// LoadFile parses one workflow definition from a YAML file. Missing
// policy fields take the value from models.DefaultPolicy(); a missing
// transport defaults to local.
func LoadFile(path string) (models.WorkflowDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.WorkflowDefinition{}, fmt.Errorf("read workflow file: %w", err)
	}

	var raw definitionYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.WorkflowDefinition{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	def := models.WorkflowDefinition{
		Name:        raw.Name,
		Description: raw.Description,
		Transport:   raw.Transport,
		Policy:      mergePolicy(raw.Policy),
		Tasks:       raw.Tasks,
	}
	if def.Transport == "" {
		def.Transport = models.TransportLocal
	}
	if err := def.Validate(); err != nil {
		return models.WorkflowDefinition{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// mergePolicy overlays the decoded fields onto the default policy.
func mergePolicy(raw *policyYAML) models.Policy {
	policy := models.DefaultPolicy()
	if raw == nil {
		return policy
	}
	if raw.TimeoutMs != nil {
		policy.TimeoutMs = *raw.TimeoutMs
	}
	if raw.MaxRetries != nil {
		policy.MaxRetries = *raw.MaxRetries
	}
	if raw.BackoffMs != nil {
		policy.BackoffMs = *raw.BackoffMs
	}
	if raw.CacheTTLMs != nil {
		policy.CacheTTLMs = *raw.CacheTTLMs
	}
	if raw.BreakerThreshold != nil {
		policy.BreakerThreshold = *raw.BreakerThreshold
	}
	if raw.Governance != nil {
		policy.Governance = models.Governance{
			MinSuccessRate:      raw.Governance.MinSuccessRate,
			MaxErrorRate:        raw.Governance.MaxErrorRate,
			MaxTimeoutsPerAgent: raw.Governance.MaxTimeoutsPerAgent,
		}
	}
	return policy
}

// LoadDir loads every .yaml/.yml file in dir as a workflow definition,
// sorted by file name. A missing directory is not an error; it just
// yields no definitions.
func LoadDir(dir string) ([]models.WorkflowDefinition, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read workflows dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	defs := make([]models.WorkflowDefinition, 0, len(files))
	for _, name := range files {
		def, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
