package store

import (
	"database/sql"
	"fmt"

	"github.com/franz/takestash/internal/util"
)

// InsertSong inserts a new song and sets its generated id
func (s *Store) InsertSong(song *Song) error {
	if song.SortPreference == "" {
		song.SortPreference = SortCreated
	}

	res, err := s.db.Exec(`
		INSERT INTO songs (name, folder_key, sort_preference)
		VALUES (?, ?, ?)
	`, song.Name, song.FolderKey, song.SortPreference)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	song.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get song id: %w", err)
	}
	return nil
}

// GetSong retrieves a song by id, or ErrNotFound
func (s *Store) GetSong(id int64) (*Song, error) {
	song := &Song{}
	err := s.db.QueryRow(`
		SELECT id, name, folder_key, created_at, sort_preference
		FROM songs WHERE id = ?
	`, id).Scan(&song.ID, &song.Name, &song.FolderKey, &song.CreatedAt, &song.SortPreference)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("song %d: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

// ListSongs returns all songs in creation order
func (s *Store) ListSongs() ([]*Song, error) {
	rows, err := s.db.Query(`
		SELECT id, name, folder_key, created_at, sort_preference
		FROM songs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*Song
	for rows.Next() {
		song := &Song{}
		if err := rows.Scan(&song.ID, &song.Name, &song.FolderKey,
			&song.CreatedAt, &song.SortPreference); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// UpdateSortPreference sets a song's version sort order
func (s *Store) UpdateSortPreference(songID int64, pref string) error {
	if !ValidSortPreference(pref) {
		return fmt.Errorf("sort preference %q: %w", pref, util.ErrNotFound)
	}

	res, err := s.db.Exec("UPDATE songs SET sort_preference = ? WHERE id = ?", pref, songID)
	if err != nil {
		return fmt.Errorf("failed to update sort preference: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("song %d: %w", songID, util.ErrNotFound)
	}
	return nil
}
