package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)d$`)

// ParseDuration parses a duration string, additionally accepting a
// whole-day suffix on top of the standard Go units.
// Examples: "30d", "168h", "90m", "45s"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if matches == nil {
		return time.ParseDuration(s)
	}

	days, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration value: %s", matches[1])
	}
	return time.Duration(days) * 24 * time.Hour, nil
}
