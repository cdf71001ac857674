package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/franz/takestash/internal/fsys"
	"github.com/franz/takestash/internal/report"
	"github.com/franz/takestash/internal/store"
	"github.com/franz/takestash/internal/util"
)

// RateVersion sets a version's star rating (1-5), or clears it with nil
func (l *Library) RateVersion(versionID int64, rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("rating %d: %w", *rating, util.ErrOutOfRange)
	}
	return l.store.UpdateRating(versionID, rating)
}

// TagVersion links a tag to a version, creating the tag if it doesn't exist
func (l *Library) TagVersion(versionID int64, tagName, color string) error {
	if _, err := l.store.GetVersion(versionID); err != nil {
		return err
	}

	t, err := l.store.GetTagByName(tagName)
	if err != nil {
		t = &store.Tag{Name: tagName, Color: color}
		if err := l.store.CreateTag(t); err != nil {
			return err
		}
	}

	return l.store.LinkTag(versionID, t.ID)
}

// UntagVersion removes a tag link from a version
func (l *Library) UntagVersion(versionID int64, tagName string) error {
	t, err := l.store.GetTagByName(tagName)
	if err != nil {
		return err
	}
	return l.store.UnlinkTag(versionID, t.ID)
}

// AddNote attaches a note to a version, optionally anchored at an offset
// (seconds) into the version's audio.
func (l *Library) AddNote(versionID int64, content string, timestamp *float64) (*store.Note, error) {
	if _, err := l.store.GetVersion(versionID); err != nil {
		return nil, err
	}

	n := &store.Note{VersionID: versionID, Content: content, Timestamp: timestamp}
	if err := l.store.InsertNote(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AttachImage copies a picture into the configured images folder and links
// it to a version. The stored file name is relative to that folder.
func (l *Library) AttachImage(versionID int64, sourcePath, caption string) (*store.Image, error) {
	if _, err := l.store.GetVersion(versionID); err != nil {
		return nil, err
	}

	settings, err := l.store.GetSettings()
	if err != nil {
		return nil, err
	}
	if settings.ImagesFolderKey == "" {
		return nil, fmt.Errorf("images folder not configured: %w", util.ErrNotFound)
	}

	dir, err := l.store.ResolveHandle(settings.ImagesFolderKey)
	if err != nil {
		return nil, err
	}
	if err := fsys.VerifyAccess(dir); err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(sourcePath))
	if err := copyFile(sourcePath, filepath.Join(dir, fileName)); err != nil {
		return nil, err
	}

	img := &store.Image{VersionID: versionID, FileName: fileName, Caption: caption}
	if err := l.store.InsertImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

// SetImagesFolder points the settings singleton at a storage folder for
// attached pictures.
func (l *Library) SetImagesFolder(path string) error {
	dir, err := fsys.RequestDirectoryAccess(path)
	if err != nil {
		return err
	}

	key, err := l.store.RegisterHandle(dir, store.HandleDirectory)
	if err != nil {
		return err
	}
	return l.store.SetImagesFolderKey(key)
}

// DeleteSong removes a song and cascades through its versions
func (l *Library) DeleteSong(songID int64) error {
	unlock := l.lockSong(songID)
	defer unlock()

	if err := l.store.DeleteSong(songID); err != nil {
		return err
	}
	l.logger.Log(&report.Event{
		Level:  report.LevelInfo,
		Event:  report.EventDelete,
		SongID: songID,
		Action: "song",
	})
	return nil
}

// DeleteVersion removes a single version and its dependent rows
func (l *Library) DeleteVersion(versionID int64) error {
	v, err := l.store.GetVersion(versionID)
	if err != nil {
		return err
	}

	unlock := l.lockSong(v.SongID)
	defer unlock()

	if err := l.store.DeleteVersion(versionID); err != nil {
		return err
	}
	l.logger.Log(&report.Event{
		Level:       report.LevelInfo,
		Event:       report.EventDelete,
		SongID:      v.SongID,
		VersionName: v.VersionName,
		Action:      "version",
	})
	return nil
}

// copyFile copies src to dst, retrying transient failures since either
// side may sit on a network volume.
func copyFile(src, dst string) error {
	return util.Retry(nil, fmt.Sprintf("copy %s", filepath.Base(src)), func() error {
		return copyFileOnce(src, dst)
	})
}

func copyFileOnce(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%s: %w", src, util.ErrPermission)
		}
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return out.Close()
}
