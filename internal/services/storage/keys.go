package storage

import (
	"regexp"
	"strconv"
	"time"
)

// MaxNameLength caps sanitized filenames
const MaxNameLength = 255

var disallowed = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename strips every character outside [A-Za-z0-9._-] and
// truncates to MaxNameLength. An empty result means the name is unusable.
func SanitizeFilename(name string) string {
	clean := disallowed.ReplaceAllString(name, "")
	if len(clean) > MaxNameLength {
		clean = clean[:MaxNameLength]
	}
	return clean
}

// ObjectKey returns <epochMillis>_<sanitized>
func ObjectKey(now time.Time, sanitized string) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + sanitized
}
