package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alawein/ringmaster/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent workflow runs",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := state.DefaultDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'ringmaster apply' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate run history: %w", err)
	}

	records, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No runs recorded yet. Run 'ringmaster apply' to start.")
		return nil
	}

	for _, rec := range records {
		symbol, attr := "✓", color.FgGreen
		if !rec.Passed {
			symbol, attr = "✗", color.FgRed
		}
		line := fmt.Sprintf("%-19s %-22s %-10s %s  %d/%d ok",
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Workflow, rec.Transport, rec.Label,
			rec.Counts.Success, rec.Counts.Total)
		printStatus(symbol, line, attr)
		for _, v := range rec.Violations {
			fmt.Printf("      %s\n", v)
		}
	}
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")
}
