package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alawein/ringmaster/internal/govern"
	"github.com/alawein/ringmaster/pkg/models"
)

func sampleArtifact(runID, label string, results []models.AgentResult) models.RunArtifact {
	summary := govern.Summarize(results)
	policy := models.DefaultPolicy()
	return models.RunArtifact{
		RunID:      runID,
		Label:      label,
		Workflow:   "repo-audit",
		Transport:  models.TransportLocal,
		Policy:     policy,
		Results:    results,
		Summary:    summary,
		Compliance: govern.Evaluate(summary, policy.Governance),
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
}

func TestWriteRun_RoundTrips(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	artifact := sampleArtifact("repo-x-20260101T000000-abcd1234", "repo-x", []models.AgentResult{
		{Task: "probe", Status: models.StatusSuccess, Attempts: 1},
		{Task: "lint", Status: models.StatusError, Error: "exit 1", Attempts: 3},
	})
	path, err := w.WriteRun(artifact)
	if err != nil {
		t.Fatalf("WriteRun: %v", err)
	}
	if filepath.Base(path) != artifact.RunID+".json" {
		t.Errorf("artifact file = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got models.RunArtifact
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal artifact: %v", err)
	}
	if got.RunID != artifact.RunID || got.Workflow != "repo-audit" {
		t.Errorf("round trip = %+v", got)
	}
	if len(got.Results) != 2 {
		t.Errorf("results = %d, want 2", len(got.Results))
	}
	if got.Summary.Totals.Total != 2 || got.Summary.Totals.Success != 1 {
		t.Errorf("summary = %+v", got.Summary.Totals)
	}
}

func TestWriteRun_NoPartialFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.WriteRun(sampleArtifact("run-1", "x", nil)); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestArtifactFileName_SanitizesLabels(t *testing.T) {
	name := artifactFileName(models.RunArtifact{Label: "../weird repo", Workflow: "repo-audit"})
	if name != "weird-repo-repo-audit.json" {
		t.Errorf("file name = %q", name)
	}
}

func TestMergeGlobal_AccumulatesAcrossRuns(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	first := sampleArtifact("run-1", "repo-a", []models.AgentResult{
		{Task: "probe", Status: models.StatusSuccess, Attempts: 1},
	})
	second := sampleArtifact("run-2", "repo-b", []models.AgentResult{
		{Task: "probe", Status: models.StatusError, Attempts: 2},
		{Task: "lint", Status: models.StatusSuccess, Attempts: 1},
	})

	if _, err := w.MergeGlobal(first); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	path, err := w.MergeGlobal(second)
	if err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if filepath.Base(path) != "global-repo-audit.json" {
		t.Errorf("global file = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var global GlobalReport
	if err := json.Unmarshal(data, &global); err != nil {
		t.Fatalf("unmarshal global: %v", err)
	}
	if len(global.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(global.Runs))
	}
	if global.Summary.Totals.Total != 3 {
		t.Errorf("combined total = %d, want 3", global.Summary.Totals.Total)
	}
	if global.Summary.Totals.Success != 2 {
		t.Errorf("combined success = %d, want 2", global.Summary.Totals.Success)
	}
	// probe saw one success and one error across the two runs.
	if got := global.Summary.PerAgent["probe"]; got.Total != 2 || got.Error != 1 {
		t.Errorf("probe counts = %+v", got)
	}
}

func TestMergeGlobal_CorruptExistingFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "global-repo-audit.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := w.MergeGlobal(sampleArtifact("run-1", "x", nil)); err == nil {
		t.Error("expected error for corrupt global report")
	}
}

func TestNewWriter_EmptyDirRejected(t *testing.T) {
	if _, err := NewWriter(""); err == nil {
		t.Error("expected error for empty output directory")
	}
}
