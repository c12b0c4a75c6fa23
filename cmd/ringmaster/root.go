package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alawein/ringmaster/internal/config"
	"github.com/alawein/ringmaster/internal/orchestrator"
)

var rootCmd = &cobra.Command{
	Use:   "ringmaster",
	Short: "Policy-driven agent task orchestrator",
	Long: `Ringmaster runs workflows of agent tasks against repositories, with
per-task timeouts, retries, circuit breaking, and result caching.

Workflows execute over one of three transports:
  local     in-process agents (command, probe, llm)
  protocol  an MCP tool server spawned over stdio
  managed   a hosted backend, falling back to local when unconfigured

Each run produces a JSON artifact with per-task results, a summary, and a
governance compliance verdict. Task failures are recorded in results, not
exit codes; ringmaster exits non-zero only when it cannot run at all.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration and wires the debug logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Debug.LogFile != "" {
		if logger, err := orchestrator.NewDebugLogger(cfg.Debug.LogFile); err == nil {
			orchestrator.SetDebugLogger(logger)
		}
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(applyAllCmd)
	rootCmd.AddCommand(workflowsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
