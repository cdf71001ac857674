package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/takestash/internal/fsys"
	"github.com/franz/takestash/internal/group"
	"github.com/franz/takestash/internal/meta"
	"github.com/franz/takestash/internal/store"
	"github.com/franz/takestash/internal/util"
)

// AudioExtensions are the file extensions considered part of a song folder
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".aac",
	".ogg",
	".opus",
	".wav",
	".aiff",
	".aif",
	".wma",
}

var audioExtSet = func() map[string]bool {
	m := make(map[string]bool, len(AudioExtensions))
	for _, ext := range AudioExtensions {
		m[strings.TrimPrefix(ext, ".")] = true
	}
	return m
}()

func isAudioFile(name string) bool {
	return audioExtSet[group.Ext(name)]
}

// ScanResult summarizes one pass over a song folder
type ScanResult struct {
	FilesSeen       int
	FilesSkipped    int
	VersionsCreated int
	FormatsAppended int
}

// AddSong registers a folder as a new song and builds its initial versions
// from a full scan. An empty path is a dismissed selection and returns
// ErrCancelled.
func (l *Library) AddSong(ctx context.Context, path string) (*store.Song, *ScanResult, error) {
	dir, err := fsys.RequestDirectoryAccess(path)
	if err != nil {
		return nil, nil, err
	}

	folderKey, err := l.store.RegisterHandle(dir, store.HandleDirectory)
	if err != nil {
		return nil, nil, err
	}

	song := &store.Song{Name: filepath.Base(dir), FolderKey: folderKey}
	if err := l.store.InsertSong(song); err != nil {
		return nil, nil, err
	}

	util.InfoLog("Added song %q from %s", song.Name, dir)

	res, err := l.scanFolder(ctx, song, dir, nil)
	if err != nil {
		return nil, nil, err
	}
	return song, res, nil
}

// Rescan reconciles a song's folder against its persisted versions: wholly
// new base names become versions, previously unseen files are appended to
// their version's format list, and nothing is ever removed for files that
// disappeared from disk.
func (l *Library) Rescan(ctx context.Context, songID int64) (*ScanResult, error) {
	song, err := l.store.GetSong(songID)
	if err != nil {
		return nil, err
	}

	unlock := l.lockSong(songID)
	defer unlock()

	dir, err := l.store.ResolveHandle(song.FolderKey)
	if err != nil {
		return nil, err
	}
	if err := fsys.VerifyAccess(dir); err != nil {
		return nil, err
	}

	versions, err := l.store.GetVersionsForSong(songID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]*store.Version, len(versions))
	for _, v := range versions {
		existing[v.VersionName] = v
	}

	return l.scanFolder(ctx, song, dir, existing)
}

// scanFolder runs one enumerate-group-probe-persist pass. With a nil
// existing map every group takes the creation path; otherwise known groups
// go through the merge path.
func (l *Library) scanFolder(ctx context.Context, song *store.Song, dir string, existing map[string]*store.Version) (*ScanResult, error) {
	entries, err := fsys.EnumerateFiles(dir)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]string)
	var names []string
	for _, e := range entries {
		if !isAudioFile(e.Name) {
			continue
		}
		names = append(names, e.Name)
		paths[e.Name] = e.Path
	}

	result := &ScanResult{FilesSeen: len(names)}
	groups := group.GroupNames(names)

	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(names),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	advance := func(n int) {
		if bar != nil {
			bar.Add(n)
		}
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if v, ok := existing[g.Base]; ok {
			appended, err := l.mergeGroup(song, v, g, paths, advance)
			if err != nil {
				return result, err
			}
			result.FormatsAppended += appended
			continue
		}

		created, skipped, err := l.createGroup(song, g, paths, advance)
		if err != nil {
			return result, err
		}
		result.FilesSkipped += skipped
		if created {
			result.VersionsCreated++
		}
	}

	if bar != nil {
		bar.Finish()
	}

	return result, nil
}

// createGroup builds a brand-new version from one base-name group. Files
// whose probe fails are skipped; a group with no usable files produces no
// version at all.
func (l *Library) createGroup(song *store.Song, g group.FileGroup, paths map[string]string, advance func(int)) (bool, int, error) {
	formats, skipped, err := l.probeGroup(song, g, paths, nil, advance)
	if err != nil {
		return false, skipped, err
	}
	if len(formats) == 0 {
		util.DebugLog("Group %q has no extractable formats, dropping", g.Base)
		return false, skipped, nil
	}

	selected := group.SelectFormat(formats)
	v := &store.Version{
		SongID:      song.ID,
		VersionName: g.Base,
		Formats:     formats,
		CreatedAt:   time.Now(),
		ModifiedAt:  time.Unix(formats[selected].ModifiedAt, 0),
	}
	if err := l.store.InsertVersion(v); err != nil {
		return false, skipped, err
	}

	l.logger.LogGroup(song.ID, g.Base, len(formats))
	util.DebugLog("Created version %q with %d format(s)", g.Base, len(formats))
	return true, skipped, nil
}

// mergeGroup appends previously unseen files to an existing version. The
// existing format order is preserved; new formats land at the end in scan
// order. No new files means no write.
func (l *Library) mergeGroup(song *store.Song, v *store.Version, g group.FileGroup, paths map[string]string, advance func(int)) (int, error) {
	known := make(map[string]bool, len(v.Formats))
	for _, f := range v.Formats {
		known[f.HandleKey] = true
	}

	added, _, err := l.probeGroup(song, g, paths, known, advance)
	if err != nil {
		return 0, err
	}
	if len(added) == 0 {
		return 0, nil
	}

	formats := append(append([]group.Format{}, v.Formats...), added...)
	if err := l.store.UpdateFormats(v.ID, formats, time.Now()); err != nil {
		return 0, err
	}

	l.logger.LogMerge(song.ID, v.VersionName, len(added))
	util.DebugLog("Appended %d format(s) to version %q", len(added), v.VersionName)
	return len(added), nil
}

// probeGroup registers and probes a group's files in scan order, skipping
// files already known by handle key and files whose probe fails.
func (l *Library) probeGroup(song *store.Song, g group.FileGroup, paths map[string]string, known map[string]bool, advance func(int)) ([]group.Format, int, error) {
	var formats []group.Format
	skipped := 0

	for _, name := range g.Names {
		advance(1)

		key, err := l.store.RegisterHandle(paths[name], store.HandleFile)
		if err != nil {
			return nil, skipped, err
		}
		if known[key] {
			continue
		}

		probe, err := meta.Probe(paths[name])
		if err != nil {
			util.WarnLog("Skipping %s: %v", name, err)
			l.logger.LogProbe(song.ID, name, "", err)
			skipped++
			continue
		}
		l.logger.LogProbe(song.ID, name, probe.Format, nil)

		formats = append(formats, group.Format{
			HandleKey:   key,
			FileName:    name,
			Format:      probe.Format,
			BitrateKbps: probe.BitrateKbps,
			DurationSec: probe.DurationSec,
			FileSize:    probe.FileSize,
			ModifiedAt:  probe.ModTime.Unix(),
		})
	}

	return formats, skipped, nil
}
