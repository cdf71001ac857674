package store

import (
	"database/sql"
	"fmt"
)

// GetSettings returns the singleton settings row, zero-valued when it has
// never been written.
func (s *Store) GetSettings() (*Settings, error) {
	settings := &Settings{}
	var key sql.NullString

	err := s.db.QueryRow("SELECT images_folder_key FROM settings WHERE id = 1").Scan(&key)
	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if key.Valid {
		settings.ImagesFolderKey = key.String
	}
	return settings, nil
}

// SetImagesFolderKey records the handle key of the images storage folder
func (s *Store) SetImagesFolderKey(key string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (id, images_folder_key) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET images_folder_key = excluded.images_folder_key
	`, key)
	if err != nil {
		return fmt.Errorf("failed to set images folder: %w", err)
	}
	return nil
}
