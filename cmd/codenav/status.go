package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codenav/internal/config"
	"codenav/internal/logging"
	"codenav/internal/provider/treesitter"
	"codenav/internal/storage"
	"codenav/internal/version"
	"codenav/internal/workspace"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace and configuration status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := effectiveWorkspaceRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	logger := logging.NewDiscardLogger()
	registry := workspace.NewRegistry(nil, logger)
	info, err := registry.Initialize(root, "")
	if err != nil {
		return err
	}

	fmt.Printf("codenav %s\n", version.Version)
	fmt.Printf("Workspace:  %s\n", info.RootPath)
	if info.PrimarySolution != nil {
		fmt.Printf("Primary:    %s (%s)\n", info.PrimarySolution.Path, info.PrimarySolution.Kind)
	} else {
		fmt.Println("Primary:    (none selected)")
	}
	fmt.Printf("Solutions:  %d\n", len(info.AllSolutions))
	if len(info.Frameworks) > 0 {
		fmt.Printf("Frameworks: %v\n", info.Frameworks)
	}
	fmt.Printf("Engine:     available=%v\n", treesitter.IsAvailable())

	if path := cfg.StoragePath(root); path != "" {
		db, err := storage.Open(path, logger)
		if err != nil {
			fmt.Printf("Storage:    %s (unavailable: %v)\n", path, err)
			return nil
		}
		defer db.Close()
		fmt.Printf("Storage:    %s\n", path)
		aggs, err := db.ToolAggregates()
		if err == nil && len(aggs) > 0 {
			fmt.Println("Tool usage:")
			for _, a := range aggs {
				fmt.Printf("  %-28s calls=%d errors=%d avgMs=%.1f\n",
					a.ToolName, a.CallCount, a.ErrorCount, a.AvgMs)
			}
		}
	}
	return nil
}
