package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/franz/takestash/internal/util"
)

// InsertNote inserts a note and sets its generated id and timestamps
func (s *Store) InsertNote(n *Note) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	res, err := s.db.Exec(`
		INSERT INTO notes (version_id, content, timestamp, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.VersionID, n.Content, n.Timestamp, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	n.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get note id: %w", err)
	}
	return nil
}

// UpdateNote replaces a note's content and timestamp
func (s *Store) UpdateNote(id int64, content string, timestamp *float64) error {
	res, err := s.db.Exec(`
		UPDATE notes SET content = ?, timestamp = ?, updated_at = ? WHERE id = ?
	`, content, timestamp, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("note %d: %w", id, util.ErrNotFound)
	}
	return nil
}

// DeleteNote removes a single note
func (s *Store) DeleteNote(id int64) error {
	_, err := s.db.Exec("DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// NotesForVersion returns a version's notes in creation order
func (s *Store) NotesForVersion(versionID int64) ([]*Note, error) {
	rows, err := s.db.Query(`
		SELECT id, version_id, content, timestamp, created_at, updated_at
		FROM notes WHERE version_id = ? ORDER BY id
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var notes []*Note
	for rows.Next() {
		n := &Note{}
		var ts sql.NullFloat64
		if err := rows.Scan(&n.ID, &n.VersionID, &n.Content, &ts,
			&n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if ts.Valid {
			v := ts.Float64
			n.Timestamp = &v
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CountNotesForSong returns note counts per version for one song, used by
// the notes sort order.
func (s *Store) CountNotesForSong(songID int64) (map[int64]int, error) {
	rows, err := s.db.Query(`
		SELECT v.id, COUNT(n.id)
		FROM versions v
		LEFT JOIN notes n ON n.version_id = v.id
		WHERE v.song_id = ?
		GROUP BY v.id
	`, songID)
	if err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var id int64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan note count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
