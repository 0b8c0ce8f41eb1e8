package capture

import (
	"fmt"
	"strconv"
	"time"
)

// filenameTimeLayout mirrors the macOS screenshot naming convention.
const filenameTimeLayout = "06-01-02 at 15.04.05"

// Key derives the cache key for a capture taken at t: the decimal unix
// timestamp in seconds. Unique per capture in practice since captures are
// user-initiated.
func Key(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

// ParseKey converts a cache key back into the capture time.
func ParseKey(key string) (time.Time, error) {
	ts, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid capture key %q: %w", key, err)
	}
	return time.Unix(ts, 0), nil
}

// BuildFilename returns the display filename for a capture taken at unix
// second ts, e.g. "Snipp 26-08-29 at 14.03.05.png" (local time).
func BuildFilename(ts int64) string {
	formatted := time.Unix(ts, 0).Local().Format(filenameTimeLayout)
	return fmt.Sprintf("Snipp %s.png", formatted)
}
