package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/franz/takestash/internal/util"
)

// legacyFixture builds a schema-v1 database: two songs, flat one-file
// versions, and dependent rows, plus real files on disk so the migration
// can re-derive sizes through the handle registry.
type legacyFixture struct {
	dbPath  string
	dataDir string
}

func buildLegacyFixture(t *testing.T) *legacyFixture {
	t.Helper()

	dir := t.TempDir()
	fx := &legacyFixture{
		dbPath:  filepath.Join(dir, "legacy.db"),
		dataDir: filepath.Join(dir, "music"),
	}
	if err := os.MkdirAll(fx.dataDir, 0755); err != nil {
		t.Fatal(err)
	}

	writeFile := func(name string, size int) string {
		path := filepath.Join(fx.dataDir, name)
		if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	wavPath := writeFile("take1.wav", 5000)
	mp3Path := writeFile("take1.mp3", 3000)
	otherPath := writeFile("other.mp3", 700)

	db, err := sql.Open("sqlite", fx.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaV1); err != nil {
		t.Fatalf("failed to apply v1 schema: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		t.Fatal(err)
	}

	exec := func(query string, args ...interface{}) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("fixture exec failed: %v", err)
		}
	}

	exec("INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)", "h-dir", fx.dataDir, "directory")
	exec("INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)", "h-wav", wavPath, "file")
	exec("INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)", "h-mp3", mp3Path, "file")
	exec("INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)", "h-other", otherPath, "file")
	// Stale handle: the file never existed, size must degrade to 0
	exec("INSERT INTO handles (key, path, kind) VALUES (?, ?, ?)",
		"h-gone", filepath.Join(fx.dataDir, "gone.mp3"), "file")

	exec("INSERT INTO songs (id, name, folder_key) VALUES (1, 'song one', 'h-dir')")
	exec("INSERT INTO songs (id, name, folder_key) VALUES (2, 'song two', 'h-dir')")

	t1 := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	insertFlat := `INSERT INTO versions
		(id, song_id, handle_key, file_name, rating, duration, bitrate, format, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	// Song 1: take1.wav + take1.mp3 share a base name, other.mp3 stands alone
	exec(insertFlat, 1, 1, "h-wav", "take1.wav", 4, 100.0, nil, "wav", t1, t1)
	exec(insertFlat, 2, 1, "h-mp3", "take1.mp3", 2, 94.0, 320, "mp3", t2, t2)
	exec(insertFlat, 3, 1, "h-other", "other.mp3", nil, 120.0, 192, "mp3", t2, t2)
	// Song 2 reuses the base name "take1"; grouping is scoped per song
	exec(insertFlat, 4, 2, "h-gone", "take1.mp3", 5, nil, nil, "", t2, t2)

	exec("INSERT INTO tags (id, name, color) VALUES (1, 'keeper', '#00ff00')")
	exec("INSERT INTO tags (id, name, color) VALUES (2, 'rough', '#ff0000')")
	// Both members of the take1 group carry the same tag; the grouped
	// version must end up with a single link
	exec("INSERT INTO version_tags (version_id, tag_id) VALUES (1, 1)")
	exec("INSERT INTO version_tags (version_id, tag_id) VALUES (2, 1)")
	exec("INSERT INTO version_tags (version_id, tag_id) VALUES (3, 2)")

	exec("INSERT INTO notes (id, version_id, content, timestamp, created_at, updated_at) VALUES (1, 1, 'bridge is great', 42.5, ?, ?)", t1, t1)
	exec("INSERT INTO notes (id, version_id, content, timestamp, created_at, updated_at) VALUES (2, 2, 'mp3 sounds thin', NULL, ?, ?)", t2, t2)
	exec("INSERT INTO notes (id, version_id, content, timestamp, created_at, updated_at) VALUES (3, 3, 'needs drums', NULL, ?, ?)", t2, t2)

	exec("INSERT INTO images (id, version_id, file_name, caption, created_at) VALUES (1, 2, 'mixer.jpg', 'desk setup', ?)", t2)

	return fx
}

func TestMigrationGroupsFlatVersions(t *testing.T) {
	fx := buildLegacyFixture(t)

	st, err := Open(fx.dbPath)
	if err != nil {
		t.Fatalf("failed to open legacy store: %v", err)
	}
	defer st.Close()

	version, err := st.getSchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d after migration, got %d",
			currentSchemaVersion, version)
	}

	song1, err := st.GetVersionsForSong(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(song1) != 2 {
		t.Fatalf("expected 2 grouped versions for song 1, got %d", len(song1))
	}

	take1 := song1[0]
	if take1.VersionName != "take1" {
		t.Fatalf("expected first version take1, got %q", take1.VersionName)
	}
	if len(take1.Formats) != 2 {
		t.Fatalf("expected 2 formats in take1, got %d", len(take1.Formats))
	}

	// Row order becomes format order
	if take1.Formats[0].FileName != "take1.wav" || take1.Formats[1].FileName != "take1.mp3" {
		t.Errorf("unexpected format order: %s, %s",
			take1.Formats[0].FileName, take1.Formats[1].FileName)
	}

	// Sizes re-derived from disk; the smaller mp3 wins selection
	if take1.Formats[0].FileSize != 5000 || take1.Formats[1].FileSize != 3000 {
		t.Errorf("unexpected re-derived sizes: %d, %d",
			take1.Formats[0].FileSize, take1.Formats[1].FileSize)
	}
	if take1.SelectedFormat != 1 {
		t.Errorf("expected selected format 1, got %d", take1.SelectedFormat)
	}

	// 100s vs 94s is past the mismatch threshold
	if !take1.DurationMismatch {
		t.Error("expected duration mismatch on take1")
	}

	// First member's rating and creation time win
	if take1.Rating == nil || *take1.Rating != 4 {
		t.Errorf("expected rating 4 from first member, got %v", take1.Rating)
	}
	wantCreated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if take1.CreatedAt.Unix() != wantCreated.Unix() {
		t.Errorf("expected createdAt %v, got %v", wantCreated, take1.CreatedAt)
	}
	// Modified time follows the selected format
	wantModified := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	if take1.ModifiedAt.Unix() != wantModified.Unix() {
		t.Errorf("expected modifiedAt %v, got %v", wantModified, take1.ModifiedAt)
	}

	// The lone-file group keeps its metadata
	other := song1[1]
	if other.VersionName != "other" {
		t.Errorf("expected second version other, got %q", other.VersionName)
	}
	if other.Rating != nil {
		t.Errorf("expected nil rating, got %v", other.Rating)
	}
	if other.Formats[0].BitrateKbps == nil || *other.Formats[0].BitrateKbps != 192 {
		t.Error("expected bitrate 192 carried over")
	}

	// Same base name under another song stays a separate version, and a
	// dead handle degrades its size to 0
	song2, err := st.GetVersionsForSong(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(song2) != 1 {
		t.Fatalf("expected 1 version for song 2, got %d", len(song2))
	}
	if song2[0].Formats[0].FileSize != 0 {
		t.Errorf("expected degraded size 0 for missing file, got %d",
			song2[0].Formats[0].FileSize)
	}
	// Empty stored format falls back to the extension
	if song2[0].Formats[0].Format != "mp3" {
		t.Errorf("expected extension fallback mp3, got %q", song2[0].Formats[0].Format)
	}

	// Songs gained the v3 sort preference
	song, err := st.GetSong(1)
	if err != nil {
		t.Fatal(err)
	}
	if song.SortPreference != SortCreated {
		t.Errorf("expected default sort preference, got %q", song.SortPreference)
	}
}

func TestMigrationRemapsDependents(t *testing.T) {
	fx := buildLegacyFixture(t)

	st, err := Open(fx.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	song1, err := st.GetVersionsForSong(1)
	if err != nil {
		t.Fatal(err)
	}
	take1, other := song1[0], song1[1]

	// Notes from both flat members land on the grouped version
	notes, err := st.NotesForVersion(take1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes on take1, got %d", len(notes))
	}
	if notes[0].Content != "bridge is great" {
		t.Errorf("note content changed: %q", notes[0].Content)
	}
	if notes[0].Timestamp == nil || *notes[0].Timestamp != 42.5 {
		t.Error("note timestamp changed during remap")
	}

	otherNotes, err := st.NotesForVersion(other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(otherNotes) != 1 || otherNotes[0].Content != "needs drums" {
		t.Errorf("expected the standalone note on other, got %d", len(otherNotes))
	}

	// Duplicate tag links collapse into one
	tags, err := st.TagsForVersion(take1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].Name != "keeper" {
		t.Fatalf("expected single keeper tag on take1, got %d", len(tags))
	}

	images, err := st.ImagesForVersion(take1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 || images[0].FileName != "mixer.jpg" {
		t.Fatalf("expected mixer.jpg on take1, got %d image(s)", len(images))
	}

	// No dependent row may reference a nonexistent version
	for _, table := range []string{"version_tags", "notes", "images"} {
		var orphans int
		err := st.db.QueryRow(
			"SELECT COUNT(*) FROM " + table +
				" WHERE version_id NOT IN (SELECT id FROM versions)").Scan(&orphans)
		if err != nil {
			t.Fatal(err)
		}
		if orphans != 0 {
			t.Errorf("%d orphaned row(s) in %s after migration", orphans, table)
		}
	}
}

func TestMigrationRetryAfterCrash(t *testing.T) {
	fx := buildLegacyFixture(t)

	// Simulate a crash: the migration runs but the transaction never
	// commits, so the version bump is lost
	db, err := sql.Open("sqlite", fx.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := migrateGroupedVersions(tx); err != nil {
		t.Fatalf("migration dry run failed: %v", err)
	}
	tx.Rollback()
	db.Close()

	// The retry must produce the same grouped result, with no duplicate
	// versions and no orphaned dependents
	st, err := Open(fx.dbPath)
	if err != nil {
		t.Fatalf("retry open failed: %v", err)
	}
	defer st.Close()

	song1, err := st.GetVersionsForSong(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(song1) != 2 {
		t.Errorf("expected 2 versions after retry, got %d", len(song1))
	}

	var total int
	if err := st.db.QueryRow("SELECT COUNT(*) FROM versions").Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("expected 3 versions total after retry, got %d", total)
	}
}

func TestMigrationFailureRollsBack(t *testing.T) {
	fx := buildLegacyFixture(t)

	// A leftover working table makes the migration's CREATE TABLE fail
	db, err := sql.Open("sqlite", fx.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE versions_grouped (id INTEGER)"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	_, err = Open(fx.dbPath)
	if !errors.Is(err, util.ErrMigration) {
		t.Fatalf("expected ErrMigration, got %v", err)
	}

	// The store must still be at its pre-migration state
	db, err = sql.Open("sqlite", fx.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1 after failed migration, got %d", version)
	}

	var flatRows int
	if err := db.QueryRow("SELECT COUNT(*) FROM versions").Scan(&flatRows); err != nil {
		t.Fatal(err)
	}
	if flatRows != 4 {
		t.Errorf("expected 4 untouched flat rows, got %d", flatRows)
	}
}
