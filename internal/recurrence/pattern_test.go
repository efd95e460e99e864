package recurrence

import (
	"testing"

	"focus-tools/internal/dates"
	"focus-tools/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestDateMatchesPattern_Daily(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1, StartDate: "2024-01-01"}
	assert.True(t, Matches("2024-01-01", rule))
	assert.True(t, Matches("2024-03-17", rule))
	assert.False(t, Matches("2023-12-31", rule), "dates before start never match")

	rule.Interval = 3
	assert.True(t, Matches("2024-01-04", rule))
	assert.False(t, Matches("2024-01-05", rule))
	assert.Len(t, Occurrences(rule, "2024-01-01", "2024-01-30", 100), 10)
}

func TestDateMatchesPattern_WeeklyDensity(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1, DaysOfWeek: []int{4}, StartDate: "2024-01-01"}

	// Exactly one match in every 7-day window.
	start := "2024-01-01"
	for w := 0; w < 12; w++ {
		from := dates.AddDays(start, w*7)
		to := dates.AddDays(from, 6)
		got := Occurrences(rule, from, to, 7)
		require.Len(t, got, 1, "window %s..%s", from, to)
		wd, _ := dates.Weekday(got[0])
		assert.Equal(t, 4, int(wd))
	}
}

func TestDateMatchesPattern_WeeklyIntervalCountsFromStartDate(t *testing.T) {
	// Start on a Wednesday; every other week on Mon + Wed. Week 0 is Jan 3..9.
	rule := model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 2, DaysOfWeek: []int{1, 3}, StartDate: "2024-01-03"}

	assert.True(t, Matches("2024-01-03", rule))
	assert.True(t, Matches("2024-01-08", rule), "Monday five days after start is still week 0")
	assert.False(t, Matches("2024-01-10", rule), "week 1 is skipped")
	assert.False(t, Matches("2024-01-15", rule))
	assert.True(t, Matches("2024-01-17", rule))
	assert.True(t, Matches("2024-01-22", rule))
	assert.False(t, Matches("2024-01-16", rule))
}

func TestDateMatchesPattern_WeeklyDefaultDays(t *testing.T) {
	// nil days: the start date's weekday (2024-01-03 is a Wednesday).
	rule := model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1, StartDate: "2024-01-03"}
	assert.True(t, Matches("2024-01-10", rule))
	assert.False(t, Matches("2024-01-11", rule))

	// Explicit empty list: every day of a matching week.
	rule.DaysOfWeek = []int{}
	assert.True(t, Matches("2024-01-11", rule))
	assert.True(t, Matches("2024-01-13", rule))

	rule.Interval = 2
	assert.True(t, Matches("2024-01-08", rule))
	assert.False(t, Matches("2024-01-14", rule))
	assert.True(t, Matches("2024-01-17", rule))
}

func TestDateMatchesPattern_MonthlyDayOfMonthClamps(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(31), StartDate: "2024-01-31"}

	assert.True(t, Matches("2024-02-29", rule), "leap February clamps to the 29th")
	assert.False(t, Matches("2024-02-28", rule))
	assert.True(t, Matches("2024-04-30", rule))
	assert.True(t, Matches("2024-05-31", rule))
	assert.False(t, Matches("2024-05-30", rule))

	rule.StartDate = "2023-01-31"
	assert.True(t, Matches("2023-02-28", rule))

	feb := Occurrences(rule, "2024-02-01", "2024-02-29", 40)
	assert.Equal(t, []string{"2024-02-29"}, feb)
}

func TestDateMatchesPattern_MonthlyInterval(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 2, DayOfMonth: intPtr(15), StartDate: "2024-01-15"}
	assert.False(t, Matches("2024-02-15", rule))
	assert.True(t, Matches("2024-03-15", rule))
	assert.True(t, Matches("2025-01-15", rule))
}

func TestDateMatchesPattern_MonthlyNthWeekday(t *testing.T) {
	// Second Tuesday.
	rule := model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1, WeekOfMonth: intPtr(2), DaysOfWeek: []int{2}, StartDate: "2024-01-01"}
	assert.True(t, Matches("2024-01-09", rule))
	assert.False(t, Matches("2024-01-02", rule))
	assert.False(t, Matches("2024-01-16", rule))
	assert.True(t, Matches("2024-02-13", rule))

	// Last Friday.
	rule.WeekOfMonth = intPtr(model.LastWeekOfMonth)
	rule.DaysOfWeek = []int{5}
	assert.True(t, Matches("2024-02-23", rule))
	assert.False(t, Matches("2024-02-16", rule))
	assert.True(t, Matches("2024-03-29", rule))
	assert.True(t, Matches("2024-05-31", rule), "a fifth Friday is the last one")
	assert.False(t, Matches("2024-05-24", rule))
}

func TestDateMatchesPattern_YearlyClampsLeapDay(t *testing.T) {
	rule := model.RecurrenceRule{Frequency: model.FrequencyYearly, Interval: 1, StartDate: "2024-02-29"}
	assert.True(t, Matches("2025-02-28", rule))
	assert.True(t, Matches("2028-02-29", rule))
	assert.False(t, Matches("2028-02-28", rule))
	assert.False(t, Matches("2025-03-01", rule))

	rule.Interval = 2
	assert.False(t, Matches("2025-02-28", rule))
	assert.True(t, Matches("2026-02-28", rule))
}

func TestDateMatchesPattern_MalformedFailsClosed(t *testing.T) {
	cases := map[string]model.RecurrenceRule{
		"zero interval":       {Frequency: model.FrequencyDaily, Interval: 0, StartDate: "2024-01-01"},
		"unknown frequency":   {Frequency: "hourly", Interval: 1, StartDate: "2024-01-01"},
		"monthly no fields":   {Frequency: model.FrequencyMonthly, Interval: 1, StartDate: "2024-01-01"},
		"bad day of month":    {Frequency: model.FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(40), StartDate: "2024-01-01"},
		"week without day":    {Frequency: model.FrequencyMonthly, Interval: 1, WeekOfMonth: intPtr(2), StartDate: "2024-01-01"},
		"bad weekday":         {Frequency: model.FrequencyWeekly, Interval: 1, DaysOfWeek: []int{9}, StartDate: "2024-01-01"},
		"bad start date":      {Frequency: model.FrequencyDaily, Interval: 1, StartDate: "yesterday"},
		"week of month range": {Frequency: model.FrequencyMonthly, Interval: 1, WeekOfMonth: intPtr(6), DaysOfWeek: []int{1}, StartDate: "2024-01-01"},
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, Occurrences(rule, "2024-01-01", "2024-03-31", 200))
			assert.Error(t, Validate(rule))
		})
	}
	assert.False(t, DateMatchesPattern("2024-13-45", model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1}, "2024-01-01"))
}

func TestValidate_AcceptsWellFormedRules(t *testing.T) {
	rules := []model.RecurrenceRule{
		{Frequency: model.FrequencyDaily, Interval: 1, StartDate: "2024-01-01", Time: "07:30"},
		{Frequency: model.FrequencyWeekly, Interval: 2, DaysOfWeek: []int{1, 3}, StartDate: "2024-01-01"},
		{Frequency: model.FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(31), StartDate: "2024-01-31"},
		{Frequency: model.FrequencyMonthly, Interval: 1, WeekOfMonth: intPtr(5), DaysOfWeek: []int{5}, StartDate: "2024-01-01"},
		{Frequency: model.FrequencyYearly, Interval: 1, StartDate: "2024-02-29"},
	}
	for _, r := range rules {
		assert.NoError(t, Validate(r), Describe(r))
	}
	assert.ErrorIs(t, Validate(model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1, StartDate: "2024-01-01", Time: "25:00"}), ErrInvalidRule)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Daily", Describe(model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 1, StartDate: "2024-01-01"}))
	assert.Equal(t, "Every 3 days at 07:00", Describe(model.RecurrenceRule{Frequency: model.FrequencyDaily, Interval: 3, StartDate: "2024-01-01", Time: "07:00"}))
	assert.Equal(t, "Every 2 weeks on Mon, Wed", Describe(model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 2, DaysOfWeek: []int{3, 1}, StartDate: "2024-01-01"}))
	assert.Equal(t, "Weekly on Wed", Describe(model.RecurrenceRule{Frequency: model.FrequencyWeekly, Interval: 1, StartDate: "2024-01-03"}))
	assert.Equal(t, "Monthly on day 31", Describe(model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1, DayOfMonth: intPtr(31), StartDate: "2024-01-31"}))
	assert.Equal(t, "Monthly on the last Fri", Describe(model.RecurrenceRule{Frequency: model.FrequencyMonthly, Interval: 1, WeekOfMonth: intPtr(5), DaysOfWeek: []int{5}, StartDate: "2024-01-01"}))
	assert.Equal(t, "Yearly on Feb 29", Describe(model.RecurrenceRule{Frequency: model.FrequencyYearly, Interval: 1, StartDate: "2024-02-29"}))
	assert.Equal(t, "Invalid rule", Describe(model.RecurrenceRule{Frequency: "hourly", Interval: 1, StartDate: "2024-01-01"}))
}
