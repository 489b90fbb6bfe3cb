package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Expected default version 1, got %d", cfg.Version)
	}
	if !cfg.Watcher.Enabled {
		t.Error("Expected watcher enabled by default")
	}
	if cfg.WorkspaceRoot != root {
		t.Errorf("Expected workspace root %s, got %s", root, cfg.WorkspaceRoot)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Provider.MaxContexts = 9
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", loaded.Logging.Level)
	}
	if loaded.Provider.MaxContexts != 9 {
		t.Errorf("Expected maxContexts 9, got %d", loaded.Provider.MaxContexts)
	}
}

func TestLoadMalformedConfigFails(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ".codenav")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(root); err == nil {
		t.Error("Expected error for malformed config")
	}
}

func TestStoragePath(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.StoragePath("/work")
	want := filepath.Join("/work", ".codenav", "codenav.db")
	if got != want {
		t.Errorf("StoragePath = %s, want %s", got, want)
	}

	cfg.Storage.Enabled = false
	if cfg.StoragePath("/work") != "" {
		t.Error("Expected empty path when storage disabled")
	}

	cfg.Storage.Enabled = true
	cfg.Storage.Path = "/custom/db.sqlite"
	if cfg.StoragePath("/work") != "/custom/db.sqlite" {
		t.Error("Expected explicit path override")
	}
}
