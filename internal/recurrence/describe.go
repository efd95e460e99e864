package recurrence

import (
	"fmt"
	"strings"
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/model"
)

var shortWeekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Describe renders a rule as a short human-readable phrase.
func Describe(rule model.RecurrenceRule) string {
	if Validate(rule) != nil {
		return "Invalid rule"
	}
	var b strings.Builder
	switch rule.Frequency {
	case model.FrequencyDaily:
		b.WriteString(every(rule.Interval, "Daily", "day"))
	case model.FrequencyWeekly:
		b.WriteString(every(rule.Interval, "Weekly", "week"))
		b.WriteString(" on ")
		b.WriteString(weekdayList(rule))
	case model.FrequencyMonthly:
		b.WriteString(every(rule.Interval, "Monthly", "month"))
		if rule.DayOfMonth != nil {
			fmt.Fprintf(&b, " on day %d", *rule.DayOfMonth)
		} else {
			fmt.Fprintf(&b, " on the %s %s", ordinal(*rule.WeekOfMonth), shortWeekdays[rule.DaysOfWeek[0]])
		}
	case model.FrequencyYearly:
		b.WriteString(every(rule.Interval, "Yearly", "year"))
		if s, err := dates.Parse(rule.StartDate); err == nil {
			fmt.Fprintf(&b, " on %s %d", s.Month().String()[:3], s.Day())
		}
	}
	if rule.Time != "" {
		b.WriteString(" at ")
		b.WriteString(rule.Time)
	}
	if rule.PausedAt != nil {
		b.WriteString(" (paused)")
	}
	return b.String()
}

func every(n int, single, unit string) string {
	if n == 1 {
		return single
	}
	return fmt.Sprintf("Every %d %ss", n, unit)
}

func weekdayList(rule model.RecurrenceRule) string {
	if rule.DaysOfWeek == nil {
		if wd, ok := dates.Weekday(rule.StartDate); ok {
			return shortWeekdays[wd]
		}
		return "?"
	}
	if len(rule.DaysOfWeek) == 0 {
		return "every day"
	}
	seen := [7]bool{}
	for _, d := range rule.DaysOfWeek {
		seen[d] = true
	}
	var names []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if seen[d] {
			names = append(names, shortWeekdays[d])
		}
	}
	return strings.Join(names, ", ")
}

func ordinal(week int) string {
	switch week {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "4th"
	default:
		return "last"
	}
}
