package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/franz/takestash/internal/group"
	"github.com/franz/takestash/internal/util"
)

// row is the common subset of *sql.Row and *sql.Rows used by scanVersion
type row interface {
	Scan(dest ...interface{}) error
}

func scanVersion(r row) (*Version, error) {
	v := &Version{}
	var formats string
	var mismatch int
	var rating sql.NullInt64

	err := r.Scan(&v.ID, &v.SongID, &v.VersionName, &formats, &v.SelectedFormat,
		&mismatch, &rating, &v.CreatedAt, &v.ModifiedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(formats), &v.Formats); err != nil {
		return nil, fmt.Errorf("failed to decode formats: %w", err)
	}
	v.DurationMismatch = mismatch == 1
	if rating.Valid {
		n := int(rating.Int64)
		v.Rating = &n
	}
	return v, nil
}

const versionColumns = `id, song_id, version_name, formats, selected_format,
       duration_mismatch, rating, created_at, modified_at`

// InsertVersion inserts a version with its policy outputs recomputed from
// the format list, and sets the generated id.
func (s *Store) InsertVersion(v *Version) error {
	v.SelectedFormat = group.SelectFormat(v.Formats)
	v.DurationMismatch = group.DurationMismatch(v.Formats)

	raw, err := json.Marshal(v.Formats)
	if err != nil {
		return fmt.Errorf("failed to encode formats: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT INTO versions
			(song_id, version_name, formats, selected_format, duration_mismatch, rating, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, v.SongID, v.VersionName, string(raw), v.SelectedFormat,
		boolToInt(v.DurationMismatch), v.Rating, v.CreatedAt, v.ModifiedAt)
	if err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}

	v.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get version id: %w", err)
	}
	return nil
}

// GetVersion retrieves a version by id, or ErrNotFound
func (s *Store) GetVersion(id int64) (*Version, error) {
	v, err := scanVersion(s.db.QueryRow(
		"SELECT "+versionColumns+" FROM versions WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("version %d: %w", id, util.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return v, nil
}

// GetVersionsForSong returns a song's versions in creation order
func (s *Store) GetVersionsForSong(songID int64) ([]*Version, error) {
	rows, err := s.db.Query(
		"SELECT "+versionColumns+" FROM versions WHERE song_id = ? ORDER BY id", songID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []*Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// UpdateFormats replaces a version's format list, recomputing the selected
// format and the duration-mismatch flag in the same write.
func (s *Store) UpdateFormats(versionID int64, formats []group.Format, modifiedAt time.Time) error {
	raw, err := json.Marshal(formats)
	if err != nil {
		return fmt.Errorf("failed to encode formats: %w", err)
	}

	res, err := s.db.Exec(`
		UPDATE versions
		SET formats = ?, selected_format = ?, duration_mismatch = ?, modified_at = ?
		WHERE id = ?
	`, string(raw), group.SelectFormat(formats),
		boolToInt(group.DurationMismatch(formats)), modifiedAt, versionID)
	if err != nil {
		return fmt.Errorf("failed to update formats: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("version %d: %w", versionID, util.ErrNotFound)
	}
	return nil
}

// UpdateRating sets or clears a version's star rating
func (s *Store) UpdateRating(versionID int64, rating *int) error {
	res, err := s.db.Exec("UPDATE versions SET rating = ? WHERE id = ?", rating, versionID)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("version %d: %w", versionID, util.ErrNotFound)
	}
	return nil
}

// SetSelectedFormat overrides the default format choice. The index must
// address the current format list.
func (s *Store) SetSelectedFormat(versionID int64, index int) error {
	v, err := s.GetVersion(versionID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(v.Formats) {
		return fmt.Errorf("format index %d of %d: %w", index, len(v.Formats), util.ErrOutOfRange)
	}

	_, err = s.db.Exec("UPDATE versions SET selected_format = ? WHERE id = ?", index, versionID)
	if err != nil {
		return fmt.Errorf("failed to set selected format: %w", err)
	}
	return nil
}
