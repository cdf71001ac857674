package store

import (
	"time"

	"github.com/franz/takestash/internal/group"
)

// Sort preferences for a song's version listing
const (
	SortCreated = "created"
	SortName    = "name"
	SortRating  = "rating"
	SortNotes   = "notes"
)

// ValidSortPreference reports whether s names a known sort order
func ValidSortPreference(s string) bool {
	switch s {
	case SortCreated, SortName, SortRating, SortNotes:
		return true
	}
	return false
}

// Song is a user-managed project rooted at one scanned folder
type Song struct {
	ID             int64
	Name           string
	FolderKey      string
	CreatedAt      time.Time
	SortPreference string
}

// Version is a logical take: one or more format-specific files sharing a
// base filename. SelectedFormat always indexes into Formats, and
// DurationMismatch is recomputed whenever Formats changes.
type Version struct {
	ID               int64
	SongID           int64
	VersionName      string
	Formats          []group.Format
	SelectedFormat   int
	DurationMismatch bool
	Rating           *int
	CreatedAt        time.Time
	ModifiedAt       time.Time
}

// Tag is a named colored label, linked many-to-many to versions
type Tag struct {
	ID    int64
	Name  string
	Color string
}

// Note is a timestamped rich-text annotation owned by a version.
// Timestamp, when set, is an offset in seconds into the version's audio.
type Note struct {
	ID        int64
	VersionID int64
	Content   string
	Timestamp *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Image is a picture attached to a version; the backing file lives under
// the configured images folder, referenced by its relative file name.
type Image struct {
	ID        int64
	VersionID int64
	FileName  string
	Caption   string
	CreatedAt time.Time
}

// Settings is the singleton application settings row
type Settings struct {
	ImagesFolderKey string
}
