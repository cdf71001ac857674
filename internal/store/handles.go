package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/franz/takestash/internal/util"
)

// Handle kinds in the indirection registry
const (
	HandleFile      = "file"
	HandleDirectory = "directory"
)

// RegisterHandle stores a path in the indirection registry and returns its
// opaque key. Registering the same path again returns the existing key, so
// the key doubles as a stable identity for the file across rescans.
func (s *Store) RegisterHandle(path, kind string) (string, error) {
	var key string
	err := s.db.QueryRow("SELECT key FROM handles WHERE path = ?", path).Scan(&key)
	if err == nil {
		return key, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to look up handle: %w", err)
	}

	key = uuid.NewString()
	if _, err := s.db.Exec(
		"INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)", key, path, kind); err != nil {
		return "", fmt.Errorf("failed to register handle: %w", err)
	}
	return key, nil
}

// ResolveHandle returns the path behind a handle key, or ErrNotFound
func (s *Store) ResolveHandle(key string) (string, error) {
	var path string
	err := s.db.QueryRow("SELECT path FROM handles WHERE key = ?", key).Scan(&path)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("handle %s: %w", key, util.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve handle: %w", err)
	}
	return path, nil
}
