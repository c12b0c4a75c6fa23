// Package report persists run artifacts: one JSON file per run plus a
// global aggregate per workflow that merges results across a batch of
// runs. Persistence is a best-effort side collaborator — the orchestrator
// core never depends on it succeeding — but failures are reported to the
// caller, never swallowed.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alawein/ringmaster/pkg/models"
)

// Writer persists run artifacts under a single output directory.
type Writer struct {
	outDir string
}

// NewWriter creates a writer rooted at outDir, creating it if needed.
func NewWriter(outDir string) (*Writer, error) {
	if outDir == "" {
		return nil, fmt.Errorf("report writer requires an output directory")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{outDir: outDir}, nil
}

// WriteRun writes the per-run artifact and returns its path. The file is
// written to a temp name and renamed so readers never observe a partial
// artifact.
func (w *Writer) WriteRun(artifact models.RunArtifact) (string, error) {
	name := artifactFileName(artifact)
	path := filepath.Join(w.outDir, name)
	if err := writeJSON(path, artifact); err != nil {
		return "", fmt.Errorf("write run artifact: %w", err)
	}
	return path, nil
}

func artifactFileName(artifact models.RunArtifact) string {
	base := artifact.RunID
	if base == "" {
		base = sanitize(artifact.Label) + "-" + artifact.Workflow
	}
	return sanitize(base) + ".json"
}

// sanitize keeps file names to a safe character set.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
