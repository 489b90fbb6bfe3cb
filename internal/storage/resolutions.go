package storage

import (
	"fmt"
	"time"
)

// LoadResolutions returns every persisted file-to-descriptor mapping.
func (db *DB) LoadResolutions() (map[string]string, error) {
	rows, err := db.conn.Query("SELECT file_path, descriptor_path FROM resolutions")
	if err != nil {
		return nil, fmt.Errorf("load resolutions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var file, descriptor string
		if err := rows.Scan(&file, &descriptor); err != nil {
			return nil, fmt.Errorf("scan resolution: %w", err)
		}
		out[file] = descriptor
	}
	return out, rows.Err()
}

// SaveResolution upserts one file-to-descriptor mapping.
func (db *DB) SaveResolution(filePath, descriptorPath string) error {
	_, err := db.conn.Exec(`
		INSERT INTO resolutions (file_path, descriptor_path, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(file_path) DO UPDATE SET
			descriptor_path = excluded.descriptor_path,
			updated_at = excluded.updated_at
	`, filePath, descriptorPath, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save resolution: %w", err)
	}
	return nil
}
