package meta

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/takestash/internal/util"
)

func TestProbeDegradesOnUnreadableMetadata(t *testing.T) {
	// Not a real audio file: tag parsing and ffprobe both fail, leaving
	// the extension and the stat fields
	path := filepath.Join(t.TempDir(), "take1.mp3")
	if err := os.WriteFile(path, make([]byte, 1234), 0644); err != nil {
		t.Fatal(err)
	}

	probe, err := Probe(path)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if probe.Format != "mp3" {
		t.Errorf("expected extension fallback mp3, got %q", probe.Format)
	}
	if probe.FileSize != 1234 {
		t.Errorf("expected size 1234, got %d", probe.FileSize)
	}
	if probe.DurationSec != nil || probe.BitrateKbps != nil {
		t.Error("expected unknown duration and bitrate")
	}
	if probe.ModTime.IsZero() {
		t.Error("expected mod time from stat")
	}
}

func TestProbeExtensionlessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mastertake")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	probe, err := Probe(path)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if probe.Format != "" {
		t.Errorf("expected empty format, got %q", probe.Format)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "gone.wav"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, util.ErrPermission) {
		t.Errorf("missing file misreported as permission error: %v", err)
	}
}
