// Package fsys is the filesystem boundary of the library. Paths act as
// capabilities: access is verified before use, permission loss maps to a
// distinguishable error, and the rest of the application persists opaque
// registry keys instead of paths.
package fsys

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/franz/takestash/internal/util"
)

// Entry is one file discovered by a directory enumeration
type Entry struct {
	Name string
	Path string
}

// RequestDirectoryAccess validates a user-selected folder. An empty path
// means the selection was dismissed and returns ErrCancelled; callers treat
// that as a no-op. A folder that exists but cannot be read returns
// ErrPermission.
func RequestDirectoryAccess(path string) (string, error) {
	if path == "" {
		return "", util.ErrCancelled
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsPermission(err) {
			return "", fmt.Errorf("%s: %w", abs, util.ErrPermission)
		}
		return "", fmt.Errorf("%s: %w", abs, util.ErrNotFound)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory: %w", abs, util.ErrNotFound)
	}

	return abs, nil
}

// VerifyAccess re-checks that a previously granted path is still readable.
// Capability loss between sessions surfaces as ErrPermission and is never
// retried automatically.
func VerifyAccess(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%s: %w", path, util.ErrPermission)
		}
		return fmt.Errorf("%s: %w", path, util.ErrNotFound)
	}
	return nil
}

// EnumerateFiles lists the regular files directly under dir, by name.
// Subdirectories are not entered.
func EnumerateFiles(dir string) ([]Entry, error) {
	// Song folders on network mounts occasionally fail a read transiently
	var entries []os.DirEntry
	err := util.Retry(nil, fmt.Sprintf("read %s", dir), func() error {
		var readErr error
		entries, readErr = os.ReadDir(dir)
		return readErr
	})
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%s: %w", dir, util.ErrPermission)
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []Entry
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, Entry{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
	}

	// ReadDir already sorts, but the scan order is an input to grouping,
	// so pin it down rather than depend on the platform.
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	return files, nil
}
