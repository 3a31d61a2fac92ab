package datemath

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is used whenever a duration hint is absent or cannot
// be understood.
const DefaultDuration = time.Hour

var durationRe = regexp.MustCompile(`^(\d+)\s*(mins?|minutes?|hrs?|hours?|h)\b`)

// ParseDuration turns a free-text duration hint ("30 minutes", "2h",
// "flexible") into a fixed time span. It is total: unparseable input
// falls back to DefaultDuration and no input ever produces an error or
// a non-positive result.
func ParseDuration(text string) time.Duration {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return DefaultDuration
	}

	matches := durationRe.FindStringSubmatch(text)
	if matches != nil {
		value, err := strconv.Atoi(matches[1])
		if err != nil || value <= 0 {
			return DefaultDuration
		}
		if strings.HasPrefix(matches[2], "min") {
			return time.Duration(value) * time.Minute
		}
		return time.Duration(value) * time.Hour
	}

	// "flexible" is an explicit hint that any slot works; treat it the
	// same as no hint at all.
	return DefaultDuration
}
