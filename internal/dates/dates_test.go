package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayISO_DayStartHourOffset(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	now := time.Date(2024, 3, 10, 1, 30, 0, 0, loc)

	assert.Equal(t, "2024-03-09", TodayISO(now, 3))
	assert.Equal(t, "2024-03-10", TodayISO(now, 0))
	assert.Equal(t, "2024-03-10", TodayISO(now, 1))
}

func TestTodayISO_ClampsHour(t *testing.T) {
	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-01", TodayISO(now, 99))
	assert.Equal(t, "2024-01-01", TodayISO(now, -4))
}

func TestTodayISO_YearBoundary(t *testing.T) {
	now := time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", TodayISO(now, 4))
}

func TestTimestampToLocalDate_UsesTimestampLocation(t *testing.T) {
	ts := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", TimestampToLocalDate(ts))

	west := time.FixedZone("west", -7*3600)
	assert.Equal(t, "2024-05-31", TimestampToLocalDate(ts.In(west)))
}

func TestStringComparisonIsChronological(t *testing.T) {
	assert.True(t, "2024-02-09" < "2024-02-10")
	assert.True(t, "2023-12-31" < "2024-01-01")
}

func TestAddDaysAndDaysBetween(t *testing.T) {
	assert.Equal(t, "2024-03-01", AddDays("2024-02-28", 2))
	assert.Equal(t, "2023-03-01", AddDays("2023-02-28", 1))
	assert.Equal(t, "not-a-date", AddDays("not-a-date", 1))

	n, ok := DaysBetween("2024-03-09", "2024-03-12")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = DaysBetween("2024-03-12", "2024-03-09")
	require.True(t, ok)
	assert.Equal(t, -3, n)

	_, ok = DaysBetween("2024-13-01", "2024-03-09")
	assert.False(t, ok)
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	// US DST starts 2024-03-10; calendar arithmetic must not lose a day.
	n, ok := DaysBetween("2024-03-09", "2024-03-11")
	require.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestClampDay(t *testing.T) {
	assert.Equal(t, 29, ClampDay(2024, time.February, 31))
	assert.Equal(t, 28, ClampDay(2023, time.February, 31))
	assert.Equal(t, 30, ClampDay(2024, time.April, 31))
	assert.Equal(t, 1, ClampDay(2024, time.April, 0))
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 10.0, DaysSince(now, now.AddDate(0, 0, -10)), 0.0001)
	assert.Equal(t, 0.0, DaysSince(now, now.Add(time.Hour)))
	assert.Equal(t, 0.0, DaysSince(now, time.Time{}))
}
