package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/franz/takestash/internal/util"
)

// CreateTag inserts a tag and sets its generated id. Tag names are unique.
func (s *Store) CreateTag(t *Tag) error {
	if t.Color == "" {
		t.Color = "#808080"
	}

	res, err := s.db.Exec("INSERT INTO tags (name, color) VALUES (?, ?)", t.Name, t.Color)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tag %q: %w", t.Name, util.ErrConflict)
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get tag id: %w", err)
	}
	return nil
}

// GetTagByName retrieves a tag by its unique name, or ErrNotFound
func (s *Store) GetTagByName(name string) (*Tag, error) {
	t := &Tag{}
	err := s.db.QueryRow("SELECT id, name, color FROM tags WHERE name = ?", name).
		Scan(&t.ID, &t.Name, &t.Color)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tag %q: %w", name, util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name
func (s *Store) ListTags() ([]*Tag, error) {
	rows, err := s.db.Query("SELECT id, name, color FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag and all its version links
func (s *Store) DeleteTag(id int64) error {
	return s.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM version_tags WHERE tag_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete tag links: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM tags WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		return nil
	})
}

// LinkTag attaches a tag to a version. Linking twice is a no-op thanks to
// the composite key.
func (s *Store) LinkTag(versionID, tagID int64) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO version_tags (version_id, tag_id) VALUES (?, ?)", versionID, tagID)
	if err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}
	return nil
}

// UnlinkTag detaches a tag from a version
func (s *Store) UnlinkTag(versionID, tagID int64) error {
	_, err := s.db.Exec(
		"DELETE FROM version_tags WHERE version_id = ? AND tag_id = ?", versionID, tagID)
	if err != nil {
		return fmt.Errorf("failed to unlink tag: %w", err)
	}
	return nil
}

// TagsForVersion returns the tags linked to a version, ordered by name
func (s *Store) TagsForVersion(versionID int64) ([]*Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN version_tags vt ON vt.tag_id = t.id
		WHERE vt.version_id = ?
		ORDER BY t.name
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query version tags: %w", err)
	}
	defer rows.Close()

	var tags []*Tag
	for rows.Next() {
		t := &Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// isUniqueViolation sniffs SQLite's unique-constraint error text; the
// modernc driver exposes no typed constraint errors.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
