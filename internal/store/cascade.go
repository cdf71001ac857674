package store

import (
	"database/sql"
	"fmt"
)

// Cascade deletion is an explicit function of the deletion command path,
// not a lifecycle hook in the driver. A song delete composes the version
// cascade; it never re-implements it.

// DeleteVersion removes a version and, in the same transaction, every tag
// link, note, and image referencing it.
func (s *Store) DeleteVersion(id int64) error {
	return s.Transaction(func(tx *sql.Tx) error {
		return deleteVersionTx(tx, id)
	})
}

// DeleteSong removes a song, cascading through each of its versions first
func (s *Store) DeleteSong(id int64) error {
	return s.Transaction(func(tx *sql.Tx) error {
		rows, err := tx.Query("SELECT id FROM versions WHERE song_id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to list song versions: %w", err)
		}

		var versionIDs []int64
		for rows.Next() {
			var vid int64
			if err := rows.Scan(&vid); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan version id: %w", err)
			}
			versionIDs = append(versionIDs, vid)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, vid := range versionIDs {
			if err := deleteVersionTx(tx, vid); err != nil {
				return err
			}
		}

		if _, err := tx.Exec("DELETE FROM songs WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete song: %w", err)
		}
		return nil
	})
}

func deleteVersionTx(tx *sql.Tx, id int64) error {
	for _, table := range []string{"version_tags", "notes", "images"} {
		if _, err := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE version_id = ?", table), id); err != nil {
			return fmt.Errorf("failed to cascade into %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM versions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	return nil
}
