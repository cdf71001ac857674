package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/franz/takestash/internal/group"
	"github.com/franz/takestash/internal/util"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testSong(t *testing.T, st *Store) *Song {
	t.Helper()
	key, err := st.RegisterHandle(t.TempDir(), HandleDirectory)
	if err != nil {
		t.Fatalf("failed to register folder: %v", err)
	}
	song := &Song{Name: "demo", FolderKey: key}
	if err := st.InsertSong(song); err != nil {
		t.Fatalf("failed to insert song: %v", err)
	}
	return song
}

func TestStoreOpenAndMigrate(t *testing.T) {
	st := openTestStore(t)

	version, err := st.getSchemaVersion()
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("expected schema version %d, got %d", currentSchemaVersion, version)
	}

	tables := []string{"schema_version", "handles", "songs", "versions", "tags",
		"version_tags", "notes", "images", "settings"}
	for _, table := range tables {
		var count int
		err := st.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}

	// The flat-era table must not survive a fresh open
	var count int
	if err := st.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='versions_grouped'").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("versions_grouped should have been renamed to versions")
	}
}

func TestHandleRegistry(t *testing.T) {
	st := openTestStore(t)

	key, err := st.RegisterHandle("/music/demos", HandleDirectory)
	if err != nil {
		t.Fatalf("failed to register handle: %v", err)
	}
	if key == "" {
		t.Fatal("expected a non-empty handle key")
	}

	// Same path yields the same key
	again, err := st.RegisterHandle("/music/demos", HandleDirectory)
	if err != nil {
		t.Fatalf("failed to re-register handle: %v", err)
	}
	if again != key {
		t.Errorf("expected stable key %s, got %s", key, again)
	}

	path, err := st.ResolveHandle(key)
	if err != nil {
		t.Fatalf("failed to resolve handle: %v", err)
	}
	if path != "/music/demos" {
		t.Errorf("expected /music/demos, got %s", path)
	}

	if _, err := st.ResolveHandle("no-such-key"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVersionInsertRecomputesPolicy(t *testing.T) {
	st := openTestStore(t)
	song := testSong(t, st)

	short := 94.0
	long := 100.0
	v := &Version{
		SongID:      song.ID,
		VersionName: "take1",
		Formats: []group.Format{
			{HandleKey: "a", FileName: "take1.wav", Format: "wav", FileSize: 500000, DurationSec: &long},
			{HandleKey: "b", FileName: "take1.mp3", Format: "mp3", FileSize: 300000, DurationSec: &short},
		},
		CreatedAt:  time.Now(),
		ModifiedAt: time.Now(),
	}

	if err := st.InsertVersion(v); err != nil {
		t.Fatalf("failed to insert version: %v", err)
	}

	got, err := st.GetVersion(v.ID)
	if err != nil {
		t.Fatalf("failed to get version: %v", err)
	}

	if got.SelectedFormat != 1 {
		t.Errorf("expected selected format 1 (smallest), got %d", got.SelectedFormat)
	}
	if !got.DurationMismatch {
		t.Error("expected duration mismatch for 100 vs 94 seconds")
	}
	if len(got.Formats) != 2 {
		t.Fatalf("expected 2 formats, got %d", len(got.Formats))
	}
	if got.Formats[0].HandleKey != "a" || got.Formats[1].HandleKey != "b" {
		t.Error("format order must be preserved")
	}
}

func TestUpdateFormatsRecomputesPolicy(t *testing.T) {
	st := openTestStore(t)
	song := testSong(t, st)

	v := &Version{
		SongID:      song.ID,
		VersionName: "take1",
		Formats: []group.Format{
			{HandleKey: "a", FileName: "take1.wav", Format: "wav", FileSize: 500},
		},
		CreatedAt:  time.Now(),
		ModifiedAt: time.Now(),
	}
	if err := st.InsertVersion(v); err != nil {
		t.Fatal(err)
	}

	updated := append(v.Formats, group.Format{
		HandleKey: "b", FileName: "take1.mp3", Format: "mp3", FileSize: 100,
	})
	if err := st.UpdateFormats(v.ID, updated, time.Now()); err != nil {
		t.Fatalf("failed to update formats: %v", err)
	}

	got, err := st.GetVersion(v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SelectedFormat != 1 {
		t.Errorf("expected selected format 1 after append, got %d", got.SelectedFormat)
	}
	if got.SelectedFormat < 0 || got.SelectedFormat >= len(got.Formats) {
		t.Errorf("selected format %d out of bounds for %d formats",
			got.SelectedFormat, len(got.Formats))
	}
}

func TestSetSelectedFormatBounds(t *testing.T) {
	st := openTestStore(t)
	song := testSong(t, st)

	v := &Version{
		SongID:      song.ID,
		VersionName: "take1",
		Formats: []group.Format{
			{HandleKey: "a", FileName: "take1.wav", Format: "wav", FileSize: 500},
			{HandleKey: "b", FileName: "take1.mp3", Format: "mp3", FileSize: 100},
		},
		CreatedAt:  time.Now(),
		ModifiedAt: time.Now(),
	}
	if err := st.InsertVersion(v); err != nil {
		t.Fatal(err)
	}

	if err := st.SetSelectedFormat(v.ID, 0); err != nil {
		t.Errorf("in-bounds index rejected: %v", err)
	}
	if err := st.SetSelectedFormat(v.ID, 2); !errors.Is(err, util.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for index 2, got %v", err)
	}
	if err := st.SetSelectedFormat(v.ID, -1); !errors.Is(err, util.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for index -1, got %v", err)
	}
}

func TestSortPreference(t *testing.T) {
	st := openTestStore(t)
	song := testSong(t, st)

	if song.SortPreference != SortCreated {
		t.Errorf("expected default sort %q, got %q", SortCreated, song.SortPreference)
	}

	if err := st.UpdateSortPreference(song.ID, SortRating); err != nil {
		t.Fatalf("failed to update sort preference: %v", err)
	}

	got, err := st.GetSong(song.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SortPreference != SortRating {
		t.Errorf("expected %q, got %q", SortRating, got.SortPreference)
	}

	if err := st.UpdateSortPreference(song.ID, "shuffle"); err == nil {
		t.Error("expected invalid sort preference to be rejected")
	}
}

func TestTagUniqueness(t *testing.T) {
	st := openTestStore(t)

	if err := st.CreateTag(&Tag{Name: "keeper", Color: "#00ff00"}); err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	err := st.CreateTag(&Tag{Name: "keeper"})
	if !errors.Is(err, util.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate tag name, got %v", err)
	}
}
