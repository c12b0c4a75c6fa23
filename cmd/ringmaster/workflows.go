package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workflowsDirFlag string

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List available workflow definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		registry, err := buildRegistry(cfg, workflowsDirFlag)
		if err != nil {
			return fmt.Errorf("load workflows: %w", err)
		}

		for _, def := range registry.List() {
			fmt.Println(headerStyle.Render(def.Name))
			if def.Description != "" {
				fmt.Printf("  %s\n", def.Description)
			}
			fmt.Printf("  %s %s · %d tasks · timeout=%dms retries=%d\n",
				labelStyle.Render("transport"), def.Transport, len(def.Tasks),
				def.Policy.TimeoutMs, def.Policy.MaxRetries)
		}
		return nil
	},
}

func init() {
	workflowsCmd.Flags().StringVar(&workflowsDirFlag, "workflows-dir", "", "Directory of YAML workflow definitions")
}
