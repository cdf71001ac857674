// Package meta extracts best-effort audio metadata from files on disk.
// Extraction failures degrade individual fields instead of failing the
// caller; only stat and permission problems surface as errors.
package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/franz/takestash/internal/group"
	"github.com/franz/takestash/internal/util"
)

// FileProbe is the result of probing one audio file. Format always carries
// a value (falling back to the extension); the numeric fields are nil when
// nothing could parse them.
type FileProbe struct {
	Format      string
	BitrateKbps *int
	DurationSec *float64
	FileSize    int64
	ModTime     time.Time
}

// Probe reads file metadata and audio properties for one file. Container
// identification comes from the tag library, duration and bitrate from an
// ffprobe subprocess when one is available. A revoked or unreadable path
// returns ErrPermission; unparseable audio never returns an error.
func Probe(path string) (*FileProbe, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%s: %w", path, util.ErrPermission)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	probe := &FileProbe{
		Format:   identifyContainer(path),
		FileSize: info.Size(),
		ModTime:  info.ModTime(),
	}

	if ff, err := RunFFprobe(path); err == nil {
		probe.DurationSec = ff.durationSeconds()
		probe.BitrateKbps = ff.bitrateKbps()
	} else {
		util.DebugLog("ffprobe unavailable for %s: %v", path, err)
	}

	return probe, nil
}

// identifyContainer names the audio container via the tag library, falling
// back to the lower-cased extension when identification fails.
func identifyContainer(path string) string {
	fallback := group.Ext(filepath.Base(path))

	f, err := os.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || m.FileType() == tag.UnknownFileType {
		return fallback
	}
	return strings.ToLower(string(m.FileType()))
}
