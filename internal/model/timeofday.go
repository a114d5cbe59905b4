package model

import (
	"fmt"
	"regexp"
	"strconv"
)

// MinuteOfDay is a wall-clock time of day counted in whole minutes from
// midnight. All slot arithmetic works on these values: no dates, no zones.
type MinuteOfDay int

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseMinuteOfDay parses an HH:mm string into minutes from midnight.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", s)
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	return MinuteOfDay(hours*60 + minutes), nil
}

// String formats the value back as HH:mm.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
