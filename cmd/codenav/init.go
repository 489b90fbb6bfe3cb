package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codenav/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Create .codenav/config.json in the workspace root with default
settings. Existing configuration is left untouched unless --force is
given.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := effectiveWorkspaceRoot()
	if err != nil {
		return err
	}

	configPath := filepath.Join(root, ".codenav", "config.json")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}

	cfg := config.DefaultConfig()
	cfg.WorkspaceRoot = root
	if err := cfg.Save(root); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", configPath)
	return nil
}
