package library

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/franz/takestash/internal/fsys"
	"github.com/franz/takestash/internal/util"
)

// Watch monitors a song's folder and rescans it when files change. Bursts
// of filesystem events coalesce into a single rescan per quiet period.
// Blocks until ctx is cancelled.
func (l *Library) Watch(ctx context.Context, songID int64, debounce time.Duration) error {
	song, err := l.store.GetSong(songID)
	if err != nil {
		return err
	}

	dir, err := l.store.ResolveHandle(song.FolderKey)
	if err != nil {
		return err
	}
	if err := fsys.VerifyAccess(dir); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	util.InfoLog("Watching %s (song %d)", dir, songID)

	trigger := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case trigger <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				util.WarnLog("Watcher error: %v", err)
			}
		}
	}()

	coalesce(ctx, trigger, debounce, func() {
		res, err := l.Rescan(ctx, songID)
		if err != nil {
			util.ErrorLog("Rescan failed: %v", err)
			return
		}
		if res.VersionsCreated > 0 || res.FormatsAppended > 0 {
			util.SuccessLog("Rescan: %d new version(s), %d appended format(s)",
				res.VersionsCreated, res.FormatsAppended)
		}
	})

	return ctx.Err()
}

// coalesce runs fn once per burst of triggers: the timer restarts on every
// trigger and fn fires after a quiet period of d. Returns when ctx ends.
func coalesce(ctx context.Context, trigger <-chan struct{}, d time.Duration, fn func()) {
	timer := time.NewTimer(d)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d)
			pending = true
		case <-timer.C:
			pending = false
			fn()
		}
	}
}
