package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alawein/ringmaster/pkg/models"
)

func writeWorkflow(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile_FullDefinition(t *testing.T) {
	path := writeWorkflow(t, t.TempDir(), "custom.yaml", `
name: custom-audit
description: A custom audit.
transport: protocol
policy:
  timeout_ms: 1500
  max_retries: 4
  backoff_ms: 50
  cache_ttl_ms: 0
  breaker_threshold: 0
  governance:
    min_success_rate: 0.9
    max_timeouts_per_agent: 1
tasks:
  - name: reviewer
    input:
      path: main.go
      deep: true
  - name: reviewer
    input:
      path: util.go
`)

	def, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if def.Name != "custom-audit" || def.Transport != models.TransportProtocol {
		t.Errorf("def = %+v", def)
	}
	if def.Policy.TimeoutMs != 1500 || def.Policy.MaxRetries != 4 {
		t.Errorf("policy = %+v", def.Policy)
	}
	// Explicit zeros are honored, not replaced by defaults.
	if def.Policy.CacheTTLMs != 0 || def.Policy.BreakerThreshold != 0 {
		t.Errorf("explicit zeros lost: %+v", def.Policy)
	}
	if def.Policy.Governance.MinSuccessRate == nil || *def.Policy.Governance.MinSuccessRate != 0.9 {
		t.Errorf("governance = %+v", def.Policy.Governance)
	}
	if def.Policy.Governance.MaxErrorRate != nil {
		t.Error("unset governance threshold should stay nil")
	}
	if len(def.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(def.Tasks))
	}
	if def.Tasks[0].Input["deep"] != true {
		t.Errorf("task input = %v", def.Tasks[0].Input)
	}
}

func TestLoadFile_OmittedPolicyFieldsDefault(t *testing.T) {
	path := writeWorkflow(t, t.TempDir(), "sparse.yaml", `
name: sparse
policy:
  timeout_ms: 100
tasks:
  - name: probe
`)

	def, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := models.DefaultPolicy()
	if def.Policy.TimeoutMs != 100 {
		t.Errorf("timeout = %d", def.Policy.TimeoutMs)
	}
	if def.Policy.MaxRetries != want.MaxRetries || def.Policy.BackoffMs != want.BackoffMs {
		t.Errorf("defaults not applied: %+v", def.Policy)
	}
	if def.Transport != models.TransportLocal {
		t.Errorf("transport = %s, want local default", def.Transport)
	}
}

func TestLoadFile_NoPolicyBlockUsesDefaults(t *testing.T) {
	path := writeWorkflow(t, t.TempDir(), "bare.yaml", `
name: bare
tasks:
  - name: probe
`)
	def, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if def.Policy != (models.Policy{
		TimeoutMs:        30000,
		MaxRetries:       2,
		BackoffMs:        250,
		CacheTTLMs:       300000,
		BreakerThreshold: 3,
	}) {
		t.Errorf("policy = %+v", def.Policy)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "name: [unclosed"},
		{"missing name", "tasks:\n  - name: x\n"},
		{"no tasks", "name: empty\n"},
		{"bad transport", "name: x\ntransport: warp\ntasks:\n  - name: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkflow(t, dir, "bad-"+tt.name+".yaml", tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
			os.Remove(path)
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "b.yaml", "name: beta\ntasks:\n  - name: probe\n")
	writeWorkflow(t, dir, "a.yml", "name: alpha\ntasks:\n  - name: probe\n")
	writeWorkflow(t, dir, "notes.txt", "not a workflow")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("defs = %d, want 2", len(defs))
	}
	if defs[0].Name != "alpha" || defs[1].Name != "beta" {
		t.Errorf("order = %s, %s", defs[0].Name, defs[1].Name)
	}
}

func TestLoadDir_MissingDirIsEmpty(t *testing.T) {
	defs, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("defs = %d, want 0", len(defs))
	}
}

func TestLoadDir_PropagatesFileErrors(t *testing.T) {
	dir := t.TempDir()
	writeWorkflow(t, dir, "bad.yaml", "name: [broken")
	if _, err := LoadDir(dir); err == nil {
		t.Error("expected error for broken workflow file")
	}
}
