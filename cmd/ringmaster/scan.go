package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alawein/ringmaster/internal/scan"
)

var (
	scanRoot    string
	scanInclude []string
	scanExclude []string
	scanDepth   int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List candidate repositories under a root directory",
	Long: `Scan walks the root directory looking for repositories (directories
containing .git, go.mod, package.json, pyproject.toml, or Cargo.toml) and
prints them. Include/exclude glob patterns filter by relative name.`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	repos, err := scan.Scan(scanRoot, scan.Options{
		Include:  scanInclude,
		Exclude:  scanExclude,
		MaxDepth: scanDepth,
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if len(repos) == 0 {
		fmt.Println("No repositories found.")
		return nil
	}
	for _, repo := range repos {
		fmt.Printf("%-40s %s\n", repo.Name, strings.Join(repo.Markers, ","))
	}
	fmt.Printf("\n%d repositories\n", len(repos))
	return nil
}

func init() {
	scanCmd.Flags().StringVar(&scanRoot, "root", ".", "Directory to scan for repositories")
	scanCmd.Flags().StringSliceVar(&scanInclude, "include", nil, "Glob patterns of repos to include")
	scanCmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "Glob patterns of repos to exclude")
	scanCmd.Flags().IntVar(&scanDepth, "depth", 0, "Maximum scan depth below root (0 = default)")
}
