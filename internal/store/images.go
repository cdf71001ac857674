package store

import (
	"fmt"
	"time"
)

// InsertImage inserts an image row and sets its generated id
func (s *Store) InsertImage(img *Image) error {
	img.CreatedAt = time.Now()

	res, err := s.db.Exec(`
		INSERT INTO images (version_id, file_name, caption, created_at)
		VALUES (?, ?, ?, ?)
	`, img.VersionID, img.FileName, img.Caption, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert image: %w", err)
	}

	img.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get image id: %w", err)
	}
	return nil
}

// DeleteImage removes a single image row. The backing file under the
// images folder is left alone.
func (s *Store) DeleteImage(id int64) error {
	_, err := s.db.Exec("DELETE FROM images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// ImagesForVersion returns a version's images in creation order
func (s *Store) ImagesForVersion(versionID int64) ([]*Image, error) {
	rows, err := s.db.Query(`
		SELECT id, version_id, file_name, caption, created_at
		FROM images WHERE version_id = ? ORDER BY id
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()

	var images []*Image
	for rows.Next() {
		img := &Image{}
		if err := rows.Scan(&img.ID, &img.VersionID, &img.FileName,
			&img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
