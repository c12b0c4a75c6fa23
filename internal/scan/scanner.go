// Package scan discovers candidate repositories under a root directory
// for the apply-all use case.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// markers identify a directory as a repository or project root.
var markers = []string{".git", "go.mod", "package.json", "pyproject.toml", "Cargo.toml"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	".git":         true,
}

// Repo is one discovered repository.
type Repo struct {
	// Path is the absolute path to the repository root.
	Path string `json:"path"`
	// Name is the path relative to the scan root.
	Name string `json:"name"`
	// Markers lists the project markers found.
	Markers []string `json:"markers"`
}

// Options filters a scan. Include and Exclude are glob patterns matched
// against the repo's relative name; Exclude wins over Include.
type Options struct {
	Include []string
	Exclude []string
	// MaxDepth bounds how deep below root to look for repositories.
	// Zero means the default of 2.
	MaxDepth int
}

// Scan walks root and returns the repositories found, sorted by name.
// The scan does not descend into a repository once identified.
func Scan(root string, opts Options) ([]Repo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 2
	}

	var repos []Repo
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if found := repoMarkers(dir); len(found) > 0 {
			rel, err := filepath.Rel(absRoot, dir)
			if err != nil {
				return err
			}
			if rel == "." {
				rel = filepath.Base(absRoot)
			}
			if matches(rel, opts) {
				repos = append(repos, Repo{Path: dir, Name: filepath.ToSlash(rel), Markers: found})
			}
			return nil
		}
		if depth >= maxDepth {
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				continue
			}
			if err := walk(filepath.Join(dir, name), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(absRoot, 0); err != nil {
		return nil, err
	}

	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	return repos, nil
}

func repoMarkers(dir string) []string {
	var found []string
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			found = append(found, marker)
		}
	}
	return found
}

func matches(name string, opts Options) bool {
	for _, pattern := range opts.Exclude {
		if globMatch(pattern, name) {
			return false
		}
	}
	if len(opts.Include) == 0 {
		return true
	}
	for _, pattern := range opts.Include {
		if globMatch(pattern, name) {
			return true
		}
	}
	return false
}

// globMatch matches pattern against the full relative name and against
// its base, so "service-*" matches "team/service-api".
func globMatch(pattern, name string) bool {
	if ok, _ := filepath.Match(pattern, name); ok {
		return true
	}
	ok, _ := filepath.Match(pattern, filepath.Base(name))
	return ok
}
