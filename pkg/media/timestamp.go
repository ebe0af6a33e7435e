package media

import (
	"regexp"
	"strconv"
)

var timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})$`)

// ValidTimestamp reports whether s is an HH:MM:SS seek offset with
// zero-padded components. Minutes and seconds must be <= 59; hours are
// deliberately unconstrained (ffmpeg accepts them, and so did we always).
func ValidTimestamp(s string) bool {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	mins, _ := strconv.Atoi(m[2])
	secs, _ := strconv.Atoi(m[3])
	return mins <= 59 && secs <= 59
}
