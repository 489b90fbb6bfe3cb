package main

import (
	"os"

	"github.com/spf13/cobra"

	"codenav/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codenav",
	Short: "Semantic code navigation for .NET workspaces",
	Long: `codenav is a code-intelligence server for C#/.NET workspaces. It
resolves symbols, finds definitions and references, walks type
hierarchies, and reports diagnostics, exposed to MCP clients over
stdio.`,
	Version: version.Version,
}

var workspaceRootFlag string

func init() {
	rootCmd.SetVersionTemplate("codenav version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&workspaceRootFlag, "workspace", "",
		"Workspace root directory (default: current directory)")
}

// effectiveWorkspaceRoot resolves the --workspace flag, falling back to
// the current directory.
func effectiveWorkspaceRoot() (string, error) {
	if workspaceRootFlag != "" {
		return workspaceRootFlag, nil
	}
	return os.Getwd()
}
