// Package recurrence decides which calendar dates a recurring task occurs on
// and manages the per-date instances of those occurrences.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"focus-tools/internal/dates"
	"focus-tools/internal/model"
)

var ErrInvalidRule = errors.New("invalid recurrence rule")

// Validate reports why a rule can never match. The matcher itself never
// returns errors; it treats an invalid rule as matching nothing.
func Validate(rule model.RecurrenceRule) error {
	if !dates.Valid(rule.StartDate) {
		return fmt.Errorf("%w: startDate %q is not YYYY-MM-DD", ErrInvalidRule, rule.StartDate)
	}
	if rule.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1", ErrInvalidRule)
	}
	for _, d := range rule.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: day of week %d out of range 0-6", ErrInvalidRule, d)
		}
	}
	if rule.Time != "" {
		if _, err := time.Parse("15:04", rule.Time); err != nil {
			return fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidRule, rule.Time)
		}
	}
	switch rule.Frequency {
	case model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyYearly:
		return nil
	case model.FrequencyMonthly:
		if rule.DayOfMonth != nil {
			if *rule.DayOfMonth < 1 || *rule.DayOfMonth > 31 {
				return fmt.Errorf("%w: dayOfMonth must be 1-31", ErrInvalidRule)
			}
			return nil
		}
		if rule.WeekOfMonth != nil {
			if *rule.WeekOfMonth < 1 || *rule.WeekOfMonth > model.LastWeekOfMonth {
				return fmt.Errorf("%w: weekOfMonth must be 1-5", ErrInvalidRule)
			}
			if len(rule.DaysOfWeek) == 0 {
				return fmt.Errorf("%w: weekOfMonth needs a day of week", ErrInvalidRule)
			}
			return nil
		}
		return fmt.Errorf("%w: monthly rule needs dayOfMonth or weekOfMonth", ErrInvalidRule)
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidRule, rule.Frequency)
	}
}

// Matches reports whether date is an occurrence of rule, using the rule's own start date.
func Matches(date string, rule model.RecurrenceRule) bool {
	return DateMatchesPattern(date, rule, rule.StartDate)
}

// DateMatchesPattern reports whether date is an occurrence of rule counted from
// startDate. Malformed rules and dates never match.
func DateMatchesPattern(date string, rule model.RecurrenceRule, startDate string) bool {
	d, err := dates.Parse(date)
	if err != nil {
		return false
	}
	s, err := dates.Parse(startDate)
	if err != nil {
		return false
	}
	if d.Before(s) || rule.Interval < 1 {
		return false
	}

	switch rule.Frequency {
	case model.FrequencyDaily:
		days := int(d.Sub(s).Hours() / 24)
		return days%rule.Interval == 0

	case model.FrequencyWeekly:
		days := int(d.Sub(s).Hours() / 24)
		// Weeks are whole 7-day blocks counted from the start date itself.
		weeks := days / 7
		if weeks%rule.Interval != 0 {
			return false
		}
		return weekdayMatches(d.Weekday(), rule.DaysOfWeek, s.Weekday())

	case model.FrequencyMonthly:
		months := (d.Year()-s.Year())*12 + int(d.Month()) - int(s.Month())
		if months%rule.Interval != 0 {
			return false
		}
		return monthlyMatches(d, rule)

	case model.FrequencyYearly:
		years := d.Year() - s.Year()
		if years%rule.Interval != 0 {
			return false
		}
		if d.Month() != s.Month() {
			return false
		}
		return d.Day() == dates.ClampDay(d.Year(), d.Month(), s.Day())
	}
	return false
}

// weekdayMatches: nil days means "the start date's weekday"; an explicit empty
// list means every day of a matching week.
func weekdayMatches(wd time.Weekday, days []int, startWeekday time.Weekday) bool {
	if days == nil {
		return wd == startWeekday
	}
	if len(days) == 0 {
		return true
	}
	found := false
	for _, x := range days {
		if x < 0 || x > 6 {
			return false
		}
		if time.Weekday(x) == wd {
			found = true
		}
	}
	return found
}

func monthlyMatches(d time.Time, rule model.RecurrenceRule) bool {
	if rule.DayOfMonth != nil {
		dom := *rule.DayOfMonth
		if dom < 1 || dom > 31 {
			return false
		}
		return d.Day() == dates.ClampDay(d.Year(), d.Month(), dom)
	}
	if rule.WeekOfMonth == nil || len(rule.DaysOfWeek) == 0 {
		return false
	}
	wom := *rule.WeekOfMonth
	target := rule.DaysOfWeek[0]
	if wom < 1 || wom > model.LastWeekOfMonth || target < 0 || target > 6 {
		return false
	}
	if d.Weekday() != time.Weekday(target) {
		return false
	}
	if wom == model.LastWeekOfMonth {
		// Last occurrence: the same weekday a week later falls in the next month.
		return d.Day()+7 > dates.DaysInMonth(d.Year(), d.Month())
	}
	return (d.Day()-1)/7+1 == wom
}

// Occurrences lists matching dates in [from, to], scanning at most limit days.
func Occurrences(rule model.RecurrenceRule, from, to string, limit int) []string {
	out := []string{}
	if !dates.Valid(from) || !dates.Valid(to) || to < from {
		return out
	}
	d := from
	for i := 0; i < limit && d <= to; i++ {
		if Matches(d, rule) {
			out = append(out, d)
		}
		d = dates.AddDays(d, 1)
	}
	return out
}
