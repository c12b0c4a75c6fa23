package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alawein/ringmaster/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the resolved ringmaster configuration.

Configuration is stored at ~/.config/ringmaster/config.yaml.
Project-specific overrides can be placed in .ringmaster.yaml; environment
variables (RINGMASTER_*) take precedence over both. Credentials are shown
masked, with the source they were resolved from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		for _, line := range configLines(cfg) {
			fmt.Println(line)
		}
		return nil
	},
}

// configLines renders the resolved configuration, one key per line.
func configLines(cfg *config.Config) []string {
	accessKey, err := config.GetAccessKey(cfg)
	if err != nil {
		accessKey = ""
	}

	lines := []string{
		fmt.Sprintf("config file: %s", config.GetUserConfigPath()),
		fmt.Sprintf("managed.endpoint_url: %s", orNotSet(cfg.Managed.EndpointURL)),
		fmt.Sprintf("managed.access_key: %s (source: %s)",
			config.MaskKey(accessKey), config.GetAccessKeySource(cfg)),
		fmt.Sprintf("protocol.command: %s", orNotSet(cfg.Protocol.Command)),
	}
	if len(cfg.Protocol.Args) > 0 {
		lines = append(lines, fmt.Sprintf("protocol.args: %s", strings.Join(cfg.Protocol.Args, " ")))
	}
	lines = append(lines,
		fmt.Sprintf("llm.model: %s", orNotSet(cfg.LLM.Model)),
		fmt.Sprintf("llm.api_key: %s", config.MaskKey(cfg.LLM.APIKey)),
		fmt.Sprintf("llm.use_aws_bedrock: %s", strconv.FormatBool(cfg.LLM.UseAWSBedrock)),
		fmt.Sprintf("defaults.workflow: %s", cfg.Defaults.Workflow),
		fmt.Sprintf("defaults.out_dir: %s", cfg.Defaults.OutDir),
		fmt.Sprintf("defaults.workers: %d", cfg.Defaults.Workers),
		fmt.Sprintf("defaults.workflows_dir: %s", cfg.Defaults.WorkflowsDir),
		fmt.Sprintf("debug.log_file: %s", orNotSet(cfg.Debug.LogFile)),
	)
	return lines
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
