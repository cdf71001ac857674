package group

// mismatchThreshold is the relative duration variance above which a
// version's formats are flagged as inconsistent cuts of the audio.
const mismatchThreshold = 0.05

// SelectFormat returns the index of the format with the smallest file size.
// Ties resolve to the earliest index: only a strictly smaller size displaces
// the current minimum during the left-to-right scan.
func SelectFormat(formats []Format) int {
	best := 0
	for i := 1; i < len(formats); i++ {
		if formats[i].FileSize < formats[best].FileSize {
			best = i
		}
	}
	return best
}

// DurationMismatch reports whether the known durations in a format list
// diverge by more than the threshold, computed as (max-min)/max. Lists with
// fewer than two known durations never mismatch.
func DurationMismatch(formats []Format) bool {
	var min, max float64
	known := 0

	for _, f := range formats {
		if f.DurationSec == nil {
			continue
		}
		d := *f.DurationSec
		if known == 0 || d < min {
			min = d
		}
		if known == 0 || d > max {
			max = d
		}
		known++
	}

	if known < 2 || max <= 0 {
		return false
	}
	return (max-min)/max > mismatchThreshold
}
