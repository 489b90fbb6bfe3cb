package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"codenav/internal/config"
	"codenav/internal/contexts"
	"codenav/internal/logging"
	"codenav/internal/mcp"
	"codenav/internal/navigator"
	"codenav/internal/provider/treesitter"
	"codenav/internal/storage"
	"codenav/internal/version"
	"codenav/internal/workspace"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server over stdio.

The server exposes the navigation tools (getTypeAtPosition,
findSymbolDefinition, findReferences, findImplementations,
getTypeHierarchy, getAvailableMembers, analyzeCodeBlock,
getCompilationDiagnostics, initializeWorkspace, getStatus) to MCP
clients speaking JSON-RPC 2.0 over stdin/stdout.

This command is typically invoked by an MCP client, not directly.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	root, err := effectiveWorkspaceRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	// Logs go to a file (or stderr); stdout carries the protocol.
	logger, closer := logging.ServerLogger(root, logging.LevelFromString(cfg.Logging.Level))
	if closer != nil {
		defer closer.Close()
	}

	var db *storage.DB
	if path := cfg.StoragePath(root); path != "" {
		db, err = storage.Open(path, logger)
		if err != nil {
			logger.Warn("storage unavailable, continuing without persistence", "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	var store workspace.ResolutionStore
	if db != nil {
		store = db
	}
	registry := workspace.NewRegistry(store, logger)
	if _, err := registry.Initialize(root, ""); err != nil {
		logger.Warn("initial workspace scan failed", "root", root, "error", err)
	}

	indexPath := cfg.Provider.ScipIndexPath
	if indexPath != "" && !filepath.IsAbs(indexPath) {
		indexPath = filepath.Join(root, indexPath)
	}
	prov := treesitter.New(treesitter.Options{IndexPath: indexPath}, logger)
	if !treesitter.IsAvailable() {
		logger.Warn("analysis engine not compiled in; navigation tools will fail")
	}

	cache := contexts.NewCache(prov, contexts.Options{
		MaxContexts:     cfg.Provider.MaxContexts,
		WatchEnabled:    cfg.Watcher.Enabled,
		WatchExtensions: cfg.Watcher.Extensions,
	}, logger)

	server := mcp.NewServer(version.Version, registry, cache,
		navigator.New(logger), prov.Name(), db, logger)
	return server.Start()
}
