package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"focus-tools/internal/dates"
)

var (
	reDateOnly   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDateOffset = regexp.MustCompile(`^([+-]\d+)([dw])$`)
)

// parseDateArg parses a date flag relative to the logical day containing now:
// - YYYY-MM-DD
// - today, tomorrow, yesterday
// - +Nd / -Nd / +Nw (days or weeks from today)
//
// An empty string stays empty so callers can use it to clear a field.
func parseDateArg(s string, now time.Time, dayStartHour int) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	today := dates.TodayISO(now, dayStartHour)
	switch s {
	case "today":
		return today, nil
	case "tomorrow":
		return dates.AddDays(today, 1), nil
	case "yesterday":
		return dates.AddDays(today, -1), nil
	}
	if reDateOnly.MatchString(s) && dates.Valid(s) {
		return s, nil
	}
	if m := reDateOffset.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if m[2] == "w" {
			n *= 7
		}
		return dates.AddDays(today, n), nil
	}
	return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, today, tomorrow, or +Nd)", s)
}
