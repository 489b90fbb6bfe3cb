// Package storage is the optional sqlite side-store: it persists
// file-to-descriptor resolutions across sessions and records per-tool
// invocation metrics.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const currentSchemaVersion = 1

// DB wraps the sqlite connection.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	path   string
}

// Open opens or creates the database at path, creating parent
// directories and the schema as needed.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger, path: path}
	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

func (db *DB) initializeSchema() error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS resolutions (
			file_path TEXT PRIMARY KEY,
			descriptor_path TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tool_metrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tool_name TEXT NOT NULL,
			success INTEGER NOT NULL,
			error_code TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_metrics_name
			ON tool_metrics(tool_name)`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}

	var haveVersion int
	if err := tx.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&haveVersion); err != nil {
		return err
	}
	if haveVersion == 0 {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
			return err
		}
		db.logger.Info("storage schema initialized", "path", db.path, "version", currentSchemaVersion)
	}
	return tx.Commit()
}
