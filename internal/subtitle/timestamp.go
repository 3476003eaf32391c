package subtitle

import (
	"fmt"
	"math"
)

// FormatTimestamp renders a seconds value as an SRT timestamp,
// HH:MM:SS,mmm. Negative values are clamped to zero. The hours field is
// unbounded and rendered with at least two digits.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}

	ms := int64(math.Round(seconds * 1000))
	hrs := ms / 3_600_000
	ms %= 3_600_000
	mins := ms / 60_000
	ms %= 60_000
	secs := ms / 1_000
	ms %= 1_000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hrs, mins, secs, ms)
}
