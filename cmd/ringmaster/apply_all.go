package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alawein/ringmaster/internal/report"
	"github.com/alawein/ringmaster/internal/scan"
	"github.com/alawein/ringmaster/pkg/models"
)

var (
	allRoot     string
	allWorkflow string
	allOutDir   string
	allInclude  []string
	allExclude  []string
	allWorkers  int
	allDryRun   bool
)

var applyAllCmd = &cobra.Command{
	Use:   "apply-all",
	Short: "Run a workflow across every repository under a root",
	Long: `Apply-all scans the root for repositories and runs the selected
workflow against each, bounded by --workers concurrent runs. Each repository
gets its own run artifact; all runs are merged into a per-workflow global
aggregate in the output directory.`,
	RunE: runApplyAll,
}

func runApplyAll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if allWorkflow == "" {
		allWorkflow = cfg.Defaults.Workflow
	}
	if allOutDir == "" {
		allOutDir = cfg.Defaults.OutDir
	}
	if allWorkers <= 0 {
		allWorkers = cfg.Defaults.Workers
	}

	registry, err := buildRegistry(cfg, "")
	if err != nil {
		return fmt.Errorf("load workflows: %w", err)
	}
	def, err := registry.Get(allWorkflow)
	if err != nil {
		return err
	}

	repos, err := scan.Scan(allRoot, scan.Options{Include: allInclude, Exclude: allExclude})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(repos) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}

	if allDryRun {
		renderPlan(def, "")
		fmt.Printf("\ntargets (%d):\n", len(repos))
		for _, repo := range repos {
			fmt.Printf("  %s\n", repo.Name)
		}
		return nil
	}

	deps := buildTransportDeps(cfg)
	writer, err := report.NewWriter(allOutDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run repositories concurrently; the accumulator is mutex-guarded.
	var mu sync.Mutex
	artifacts := make([]models.RunArtifact, 0, len(repos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(allWorkers)
	for _, repo := range repos {
		repo := repo
		g.Go(func() error {
			artifact, err := runWorkflow(gctx, def, deps, repo.Path)
			if err != nil {
				return fmt.Errorf("%s: %w", repo.Name, err)
			}

			mu.Lock()
			defer mu.Unlock()
			artifacts = append(artifacts, artifact)

			symbol, attr := "✓", color.FgGreen
			if !artifact.Compliance.Passed {
				symbol, attr = "✗", color.FgRed
			}
			printStatus(symbol, fmt.Sprintf("%-40s %d/%d tasks ok", repo.Name,
				artifact.Summary.Totals.Success, artifact.Summary.Totals.Total), attr)

			if _, err := persistRun(writer, artifact); err != nil {
				return err
			}
			_, err = writer.MergeGlobal(artifact)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	passed := 0
	for _, artifact := range artifacts {
		if artifact.Compliance.Passed {
			passed++
		}
	}
	fmt.Printf("\n%d repositories · %d passed · %d failed\n", len(artifacts), passed, len(artifacts)-passed)
	fmt.Printf("aggregate: %s/global-%s.json\n", allOutDir, allWorkflow)
	return nil
}

func init() {
	applyAllCmd.Flags().StringVar(&allRoot, "root", ".", "Directory to scan for repositories")
	applyAllCmd.Flags().StringVar(&allWorkflow, "workflow", "", "Workflow to run (default from config)")
	applyAllCmd.Flags().StringVar(&allOutDir, "out-dir", "", "Directory for run artifacts (default from config)")
	applyAllCmd.Flags().StringSliceVar(&allInclude, "include", nil, "Glob patterns of repos to include")
	applyAllCmd.Flags().StringSliceVar(&allExclude, "exclude", nil, "Glob patterns of repos to exclude")
	applyAllCmd.Flags().IntVar(&allWorkers, "workers", 0, "Maximum concurrent repository runs (default from config)")
	applyAllCmd.Flags().BoolVar(&allDryRun, "dry-run", false, "Print the plan and targets without executing")
}
