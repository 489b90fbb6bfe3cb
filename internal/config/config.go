// Package config loads and persists codenav configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"codenav/internal/paths"
)

// Config represents the complete codenav configuration
type Config struct {
	Version       int    `json:"version" mapstructure:"version"`
	WorkspaceRoot string `json:"workspaceRoot" mapstructure:"workspaceRoot"`

	Provider ProviderConfig `json:"provider" mapstructure:"provider"`
	Watcher  WatcherConfig  `json:"watcher" mapstructure:"watcher"`
	Storage  StorageConfig  `json:"storage" mapstructure:"storage"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// ProviderConfig contains analysis provider configuration
type ProviderConfig struct {
	// ScipIndexPath points at an optional SCIP index supplementing the
	// syntactic provider. Relative paths resolve against the workspace root.
	ScipIndexPath string `json:"scipIndexPath" mapstructure:"scipIndexPath"`
	// MaxContexts bounds how many analysis contexts stay cached at once.
	MaxContexts int `json:"maxContexts" mapstructure:"maxContexts"`
}

// WatcherConfig contains file-watch configuration for cache invalidation
type WatcherConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Extensions are the source-file extensions whose changes invalidate
	// a cached context.
	Extensions []string `json:"extensions" mapstructure:"extensions"`
}

// StorageConfig contains the optional sqlite side-store configuration
type StorageConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// Path is the sqlite database location. Empty means
	// <workspaceRoot>/.codenav/codenav.db.
	Path string `json:"path" mapstructure:"path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Provider: ProviderConfig{
			ScipIndexPath: "index.scip",
			MaxContexts:   5,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			Extensions: paths.DefaultSourceExtensions,
		},
		Storage: StorageConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from <workspaceRoot>/.codenav/config.json,
// falling back to defaults when no config file exists.
func Load(workspaceRoot string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workspaceRoot, ".codenav"))
	v.SetEnvPrefix("CODENAV")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := DefaultConfig()
			cfg.WorkspaceRoot = workspaceRoot
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.WorkspaceRoot == "" {
		cfg.WorkspaceRoot = workspaceRoot
	}
	return cfg, nil
}

// Save writes the configuration to <workspaceRoot>/.codenav/config.json
func (c *Config) Save(workspaceRoot string) error {
	dir := filepath.Join(workspaceRoot, ".codenav")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

// StoragePath returns the effective sqlite database path, or "" when
// storage is disabled or no workspace root is known.
func (c *Config) StoragePath(workspaceRoot string) string {
	if !c.Storage.Enabled {
		return ""
	}
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if workspaceRoot == "" {
		return ""
	}
	return filepath.Join(workspaceRoot, ".codenav", "codenav.db")
}
