package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWarsaw(t *testing.T) {
	// 12:00 UTC in June is 14:00 in Warsaw (CEST).
	utc := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	w := ToWarsaw(utc)

	assert.Equal(t, 14, w.Hour())
	assert.True(t, utc.Equal(w))
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := Date(2026, 3, 10).Add(13*time.Hour + 45*time.Minute)

	start := StartOfDay(ts)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 10, start.Day())

	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 10, end.Day())
}

func TestStartOfWeek_MondayBased(t *testing.T) {
	// 2026-03-11 is a Wednesday.
	wed := Date(2026, 3, 11)
	monday := StartOfWeek(wed)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 9, monday.Day())

	// Sunday belongs to the week that started the previous Monday.
	sun := Date(2026, 3, 15)
	assert.Equal(t, 9, StartOfWeek(sun).Day())
	assert.Equal(t, time.Sunday, EndOfWeek(wed).Weekday())
	assert.Equal(t, 15, EndOfWeek(wed).Day())
}

func TestIsSameDay_AcrossZones(t *testing.T) {
	// 23:30 UTC is already the next day in Warsaw.
	lateUTC := time.Date(2026, 6, 15, 23, 30, 0, 0, time.UTC)
	assert.False(t, IsSameDay(lateUTC, Date(2026, 6, 15)))
	assert.True(t, IsSameDay(lateUTC, Date(2026, 6, 16)))
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(Date(2026, 3, 14)))  // Saturday
	assert.True(t, IsWeekend(Date(2026, 3, 15)))  // Sunday
	assert.False(t, IsWeekend(Date(2026, 3, 16))) // Monday
}

func TestDaysBetween_Absolute(t *testing.T) {
	a := Date(2026, 3, 10)
	b := Date(2026, 3, 17)

	assert.Equal(t, 7, DaysBetween(a, b))
	assert.Equal(t, 7, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestInclusiveDays(t *testing.T) {
	start := Date(2026, 5, 1)

	assert.Equal(t, 1, InclusiveDays(start, start))
	assert.Equal(t, 7, InclusiveDays(start, start.AddDate(0, 0, 6)))
	// Reversed range is empty, not negative.
	assert.Equal(t, 0, InclusiveDays(start, start.AddDate(0, 0, -1)))
}

func TestFormatting(t *testing.T) {
	ts := Date(2026, 3, 5)

	assert.Equal(t, "2026-03-05", FormatDateStr(ts))
	assert.Equal(t, "05.03.2026", FormatPolish(ts))
}

func TestParseDateWarsaw(t *testing.T) {
	ts, err := ParseDateWarsaw("2026-03-05")
	require.NoError(t, err)
	assert.True(t, ts.Equal(Date(2026, 3, 5)))

	_, err = ParseDateWarsaw("not-a-date")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12h 30m", FormatDuration(12.5))
	assert.Equal(t, "8h", FormatDuration(8))
	assert.Equal(t, "0h 1m", FormatDuration(1.0/60.0))
}
