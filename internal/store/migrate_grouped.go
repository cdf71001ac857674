package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/franz/takestash/internal/group"
)

// legacyVersion is one row of the pre-v2 flat layout: a single physical
// file promoted to a full version.
type legacyVersion struct {
	ID         int64
	SongID     int64
	HandleKey  string
	FileName   string
	Rating     *int
	Duration   *float64
	Bitrate    *int
	Format     string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// migrateGroupedVersions rewrites the flat one-file-per-version layout into
// grouped multi-format versions. Flat rows are partitioned by
// (song, base name) exactly like a fresh folder scan, each partition becomes
// one grouped version, and every tag link, note, and image is remapped from
// its legacy version id to the id of the grouped version that absorbed it.
// Runs entirely inside the caller's migration transaction.
func migrateGroupedVersions(tx *sql.Tx) error {
	if _, err := tx.Exec(schemaV2Versions); err != nil {
		return fmt.Errorf("failed to create grouped versions table: %w", err)
	}

	legacy, err := readLegacyVersions(tx)
	if err != nil {
		return err
	}

	// Partition by (song, base name), preserving row order. Row order is
	// insertion order, which is the original scan order.
	type partKey struct {
		songID int64
		base   string
	}
	index := make(map[partKey]int)
	var parts [][]legacyVersion

	for _, row := range legacy {
		key := partKey{row.SongID, group.BaseName(row.FileName)}
		i, ok := index[key]
		if !ok {
			i = len(parts)
			index[key] = i
			parts = append(parts, nil)
		}
		parts[i] = append(parts[i], row)
	}

	// Every legacy id in a partition maps to the same grouped version id.
	idMap := make(map[int64]int64, len(legacy))

	for _, members := range parts {
		formats := make([]group.Format, 0, len(members))
		for _, row := range members {
			formats = append(formats, group.Format{
				HandleKey:   row.HandleKey,
				FileName:    row.FileName,
				Format:      legacyFormatName(row),
				BitrateKbps: row.Bitrate,
				DurationSec: row.Duration,
				FileSize:    statHandleSize(tx, row.HandleKey),
				ModifiedAt:  row.ModifiedAt.Unix(),
			})
		}

		selected := group.SelectFormat(formats)
		mismatch := group.DurationMismatch(formats)
		first := members[0]

		raw, err := json.Marshal(formats)
		if err != nil {
			return fmt.Errorf("failed to encode formats: %w", err)
		}

		res, err := tx.Exec(`
			INSERT INTO versions_grouped
				(song_id, version_name, formats, selected_format, duration_mismatch, rating, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, first.SongID, group.BaseName(first.FileName), string(raw), selected,
			boolToInt(mismatch), first.Rating, first.CreatedAt,
			time.Unix(formats[selected].ModifiedAt, 0))
		if err != nil {
			return fmt.Errorf("failed to insert grouped version: %w", err)
		}

		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get grouped version id: %w", err)
		}
		for _, row := range members {
			idMap[row.ID] = newID
		}
	}

	if err := remapDependents(tx, idMap); err != nil {
		return err
	}

	// Swap the flat table for the grouped one
	if _, err := tx.Exec("DROP TABLE versions"); err != nil {
		return fmt.Errorf("failed to drop flat versions table: %w", err)
	}
	if _, err := tx.Exec("ALTER TABLE versions_grouped RENAME TO versions"); err != nil {
		return fmt.Errorf("failed to rename grouped versions table: %w", err)
	}

	return nil
}

// readLegacyVersions loads the flat rows in insertion order
func readLegacyVersions(tx *sql.Tx) ([]legacyVersion, error) {
	rows, err := tx.Query(`
		SELECT id, song_id, handle_key, file_name, rating, duration, bitrate,
		       COALESCE(format, ''), created_at, modified_at
		FROM versions
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read flat versions: %w", err)
	}
	defer rows.Close()

	var legacy []legacyVersion
	for rows.Next() {
		var row legacyVersion
		var rating, bitrate sql.NullInt64
		var duration sql.NullFloat64
		var created, modified sql.NullTime

		err := rows.Scan(&row.ID, &row.SongID, &row.HandleKey, &row.FileName,
			&rating, &duration, &bitrate, &row.Format, &created, &modified)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flat version: %w", err)
		}

		if rating.Valid {
			v := int(rating.Int64)
			row.Rating = &v
		}
		if duration.Valid {
			v := duration.Float64
			row.Duration = &v
		}
		if bitrate.Valid {
			v := int(bitrate.Int64)
			row.Bitrate = &v
		}
		if created.Valid {
			row.CreatedAt = created.Time
		}
		if modified.Valid {
			row.ModifiedAt = modified.Time
		}

		legacy = append(legacy, row)
	}

	return legacy, rows.Err()
}

// remapDependents points every tag link, note, and image at the grouped
// version that absorbed its legacy version. Ids are first moved into a
// negative namespace so a legacy id being reused by the new table cannot
// alias rows that were already remapped.
func remapDependents(tx *sql.Tx, idMap map[int64]int64) error {
	tables := []string{"version_tags", "notes", "images"}

	for _, table := range tables {
		if _, err := tx.Exec(fmt.Sprintf(
			"UPDATE %s SET version_id = -version_id WHERE version_id > 0", table)); err != nil {
			return fmt.Errorf("failed to stage %s remap: %w", table, err)
		}
	}

	for oldID, newID := range idMap {
		// Two legacy versions merged into one group can carry the same
		// tag; the composite key keeps a single link.
		if _, err := tx.Exec(
			"UPDATE OR IGNORE version_tags SET version_id = ? WHERE version_id = ?",
			newID, -oldID); err != nil {
			return fmt.Errorf("failed to remap version_tags: %w", err)
		}
		if _, err := tx.Exec(
			"UPDATE notes SET version_id = ? WHERE version_id = ?",
			newID, -oldID); err != nil {
			return fmt.Errorf("failed to remap notes: %w", err)
		}
		if _, err := tx.Exec(
			"UPDATE images SET version_id = ? WHERE version_id = ?",
			newID, -oldID); err != nil {
			return fmt.Errorf("failed to remap images: %w", err)
		}
	}

	// Drop whatever could not be remapped: duplicate tag links and rows
	// that already referenced a nonexistent version.
	for _, table := range tables {
		if _, err := tx.Exec(fmt.Sprintf(
			"DELETE FROM %s WHERE version_id NOT IN (SELECT id FROM versions_grouped)", table)); err != nil {
			return fmt.Errorf("failed to prune %s: %w", table, err)
		}
	}

	return nil
}

// statHandleSize re-derives a file's size through the handle registry.
// Lookup failures degrade to 0; the migration never aborts over one file.
func statHandleSize(tx *sql.Tx, key string) int64 {
	var path string
	err := tx.QueryRow("SELECT path FROM handles WHERE key = ?", key).Scan(&path)
	if err != nil {
		return 0
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// legacyFormatName falls back to the file extension when the flat row never
// recorded a container name.
func legacyFormatName(row legacyVersion) string {
	if row.Format != "" {
		return row.Format
	}
	return group.Ext(row.FileName)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
