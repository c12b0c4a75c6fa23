package agents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alawein/ringmaster/pkg/models"
)

// ProbeAgent checks for the presence of a file or directory. It backs repo
// audit workflows that assert on project markers (go.mod, lockfiles, CI
// config) without shelling out.
//
// Input schema:
//
//	path:       string (required) — path to probe, relative to dir
//	dir:        string (optional) — base directory
//	must_exist: bool   (optional) — when true, absence is an error
//
// Output: {"path": string, "exists": bool, "size": int64, "dir": bool}.
type ProbeAgent struct{}

// NewProbeAgent creates a probe agent.
func NewProbeAgent() *ProbeAgent {
	return &ProbeAgent{}
}

// Run implements Runner.
func (a *ProbeAgent) Run(ctx context.Context, task models.AgentTask) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, _ := task.Input["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("probe agent requires a %q input", "path")
	}
	if dir, _ := task.Input["dir"].(string); dir != "" {
		path = filepath.Join(dir, path)
	}
	mustExist, _ := task.Input["must_exist"].(bool)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return nil, fmt.Errorf("required path missing: %s", path)
			}
			return map[string]any{"path": path, "exists": false}, nil
		}
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}

	return map[string]any{
		"path":   path,
		"exists": true,
		"size":   info.Size(),
		"dir":    info.IsDir(),
	}, nil
}

var _ Runner = (*ProbeAgent)(nil)
