package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alawein/ringmaster/internal/govern"
	"github.com/alawein/ringmaster/pkg/models"
)

// GlobalReport accumulates every run of one workflow across a batch. Its
// summary and compliance are recomputed from the union of all results on
// each merge, never updated incrementally.
type GlobalReport struct {
	Workflow   string               `json:"workflow"`
	UpdatedAt  time.Time            `json:"updated_at"`
	Runs       []RunRef             `json:"runs"`
	Results    []models.AgentResult `json:"results"`
	Summary    models.Summary       `json:"summary"`
	Compliance models.Compliance    `json:"compliance"`
}

// RunRef is the per-run line item inside a global report.
type RunRef struct {
	RunID     string    `json:"run_id"`
	Label     string    `json:"label"`
	Passed    bool      `json:"passed"`
	Total     int       `json:"total"`
	Success   int       `json:"success"`
	StartedAt time.Time `json:"started_at"`
}

// MergeGlobal folds one run artifact into the workflow's global aggregate
// file, creating it on first use, and returns the aggregate path. The
// governance thresholds of the merged run judge the combined results.
func (w *Writer) MergeGlobal(artifact models.RunArtifact) (string, error) {
	path := filepath.Join(w.outDir, "global-"+sanitize(artifact.Workflow)+".json")

	global := GlobalReport{Workflow: artifact.Workflow}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &global); err != nil {
			return "", fmt.Errorf("parse existing global report %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read global report: %w", err)
	}

	global.Runs = append(global.Runs, RunRef{
		RunID:     artifact.RunID,
		Label:     artifact.Label,
		Passed:    artifact.Compliance.Passed,
		Total:     artifact.Summary.Totals.Total,
		Success:   artifact.Summary.Totals.Success,
		StartedAt: artifact.StartedAt,
	})
	global.Results = append(global.Results, artifact.Results...)
	global.Summary = govern.Summarize(global.Results)
	global.Compliance = govern.Evaluate(global.Summary, artifact.Policy.Governance)
	global.UpdatedAt = time.Now().UTC()

	if err := writeJSON(path, global); err != nil {
		return "", fmt.Errorf("write global report: %w", err)
	}
	return path, nil
}
