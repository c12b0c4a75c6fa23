package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alawein/ringmaster/internal/report"
	"github.com/alawein/ringmaster/internal/transport"
	"github.com/alawein/ringmaster/internal/workflow"
)

var (
	applyPath         string
	applyWorkflow     string
	applyOut          string
	applyWorkflowsDir string
	applyDryRun       bool
	applyWatch        bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run a workflow against one repository",
	Long: `Apply runs the selected workflow's tasks against a single repository
over the workflow's transport, writes a JSON run artifact, and records the
run in history.

With --watch, apply re-runs whenever a definition in the workflows
directory changes. Task failures are reported in the artifact and the
summary; the command exits non-zero only when the run cannot start.`,
	RunE: runApply,
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if applyWorkflow == "" {
		applyWorkflow = cfg.Defaults.Workflow
	}
	if applyOut == "" {
		applyOut = cfg.Defaults.OutDir
	}
	workflowsDir := applyWorkflowsDir
	if workflowsDir == "" {
		workflowsDir = cfg.Defaults.WorkflowsDir
	}

	registry, err := buildRegistry(cfg, workflowsDir)
	if err != nil {
		return fmt.Errorf("load workflows: %w", err)
	}
	def, err := registry.Get(applyWorkflow)
	if err != nil {
		return err
	}

	if applyDryRun {
		renderPlan(def, applyPath)
		return nil
	}

	deps := buildTransportDeps(cfg)
	writer, err := report.NewWriter(applyOut)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := applyOnce(ctx, registry, deps, writer); err != nil {
		return err
	}
	if !applyWatch {
		return nil
	}

	// Watch mode: re-run whenever the workflows directory changes.
	reloaded := make(chan struct{}, 1)
	watcher, err := workflow.NewWatcher(workflowsDir, registry, func(count int, err error) {
		if err != nil {
			printStatus("✗", fmt.Sprintf("reload failed: %v", err), color.FgRed)
			return
		}
		printStatus("↻", fmt.Sprintf("reloaded %d workflow definitions", count), color.FgCyan)
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", workflowsDir, err)
	}
	defer watcher.Close()

	printStatus("👁", "watching "+workflowsDir+" (ctrl-c to stop)", color.FgCyan)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloaded:
			if err := applyOnce(ctx, registry, deps, writer); err != nil {
				printStatus("✗", err.Error(), color.FgRed)
			}
		}
	}
}

// applyOnce resolves the workflow from the registry (definitions may have
// been reloaded) and runs it.
func applyOnce(ctx context.Context, registry *workflow.Registry, deps transport.Deps, writer *report.Writer) error {
	def, err := registry.Get(applyWorkflow)
	if err != nil {
		return err
	}

	artifact, err := runWorkflow(ctx, def, deps, applyPath)
	if err != nil {
		return err
	}

	renderResults(artifact.Results)
	renderSummary(artifact)

	path, err := persistRun(writer, artifact)
	if err != nil {
		return err
	}
	fmt.Printf("\nartifact: %s\n", path)
	return nil
}

func init() {
	applyCmd.Flags().StringVar(&applyPath, "path", ".", "Repository to run the workflow against")
	applyCmd.Flags().StringVar(&applyWorkflow, "workflow", "", "Workflow to run (default from config)")
	applyCmd.Flags().StringVar(&applyOut, "out", "", "Directory for run artifacts (default from config)")
	applyCmd.Flags().StringVar(&applyWorkflowsDir, "workflows-dir", "", "Directory of YAML workflow definitions")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the plan without executing")
	applyCmd.Flags().BoolVar(&applyWatch, "watch", false, "Re-run when workflow definitions change")
}
