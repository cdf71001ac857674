package meta

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/franz/takestash/internal/util"
)

// FFprobeInfo represents the output from ffprobe
type FFprobeInfo struct {
	Streams []FFprobeStream `json:"streams"`
	Format  *FFprobeFormat  `json:"format"`
}

// FFprobeStream represents one stream of the probed file
type FFprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
}

// FFprobeFormat represents container-level metadata
type FFprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

// durationSeconds returns the container duration, or nil when ffprobe
// reported none
func (i *FFprobeInfo) durationSeconds() *float64 {
	if i.Format == nil {
		return nil
	}
	d, err := strconv.ParseFloat(i.Format.Duration, 64)
	if err != nil {
		return nil
	}
	return &d
}

// bitrateKbps returns the container bitrate rounded to the nearest kbps,
// or nil when ffprobe reported none
func (i *FFprobeInfo) bitrateKbps() *int {
	if i.Format == nil {
		return nil
	}
	bps, err := strconv.Atoi(i.Format.BitRate)
	if err != nil || bps <= 0 {
		return nil
	}
	kbps := (bps + 500) / 1000
	return &kbps
}

// RunFFprobe executes ffprobe and parses the JSON output
func RunFFprobe(path string) (*FFprobeInfo, error) {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return nil, util.ErrNotFound
	}

	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed: %s", string(exitErr.Stderr))
		}
		return nil, fmt.Errorf("ffprobe execution failed: %w", err)
	}

	var info FFprobeInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return &info, nil
}
