package library

import (
	"sort"

	"github.com/franz/takestash/internal/store"
)

// SongWithVersions pairs a song with its versions, ordered by the song's
// sort preference.
type SongWithVersions struct {
	Song     *store.Song
	Versions []*store.Version
}

// ListSongsWithVersions returns every song and its versions, each version
// list ordered by that song's sort preference.
func (l *Library) ListSongsWithVersions() ([]*SongWithVersions, error) {
	songs, err := l.store.ListSongs()
	if err != nil {
		return nil, err
	}

	var out []*SongWithVersions
	for _, song := range songs {
		versions, err := l.store.GetVersionsForSong(song.ID)
		if err != nil {
			return nil, err
		}
		if err := l.sortVersions(song, versions); err != nil {
			return nil, err
		}
		out = append(out, &SongWithVersions{Song: song, Versions: versions})
	}
	return out, nil
}

// sortVersions orders versions in place per the song's preference.
// Creation order is the stored order, so it needs no re-sort.
func (l *Library) sortVersions(song *store.Song, versions []*store.Version) error {
	switch song.SortPreference {
	case store.SortName:
		sort.SliceStable(versions, func(i, j int) bool {
			return versions[i].VersionName < versions[j].VersionName
		})
	case store.SortRating:
		// Highest rating first, unrated last
		sort.SliceStable(versions, func(i, j int) bool {
			ri, rj := -1, -1
			if versions[i].Rating != nil {
				ri = *versions[i].Rating
			}
			if versions[j].Rating != nil {
				rj = *versions[j].Rating
			}
			return ri > rj
		})
	case store.SortNotes:
		counts, err := l.store.CountNotesForSong(song.ID)
		if err != nil {
			return err
		}
		sort.SliceStable(versions, func(i, j int) bool {
			return counts[versions[i].ID] > counts[versions[j].ID]
		})
	}
	return nil
}

// ListTags returns all tags
func (l *Library) ListTags() ([]*store.Tag, error) {
	return l.store.ListTags()
}

// ListNotesForVersion returns a version's notes in creation order
func (l *Library) ListNotesForVersion(versionID int64) ([]*store.Note, error) {
	return l.store.NotesForVersion(versionID)
}

// ListImagesForVersion returns a version's images in creation order
func (l *Library) ListImagesForVersion(versionID int64) ([]*store.Image, error) {
	return l.store.ImagesForVersion(versionID)
}

// GetVersion returns one version by id
func (l *Library) GetVersion(versionID int64) (*store.Version, error) {
	return l.store.GetVersion(versionID)
}
