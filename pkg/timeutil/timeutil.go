// Package timeutil provides timezone utilities for the Warsaw timezone.
// Residency programs run on Polish civil time, so training-day arithmetic
// (internship stays, module windows, end-date warnings) uses Warsaw dates.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// WarsawTZ is the Warsaw timezone. Falls back to a fixed UTC+1 zone when the
// system timezone database is unavailable (scratch containers).
var WarsawTZ = loadWarsaw()

func loadWarsaw() *time.Location {
	loc, err := time.LoadLocation("Europe/Warsaw")
	if err != nil {
		return time.FixedZone("Europe/Warsaw", 1*60*60)
	}
	return loc
}

// Now returns the current time in Warsaw timezone.
func Now() time.Time {
	return time.Now().In(WarsawTZ)
}

// ToWarsaw converts a time to Warsaw timezone.
func ToWarsaw(t time.Time) time.Time {
	return t.In(WarsawTZ)
}

// Date creates a time in Warsaw timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, WarsawTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Warsaw timezone.
func StartOfDay(t time.Time) time.Time {
	w := ToWarsaw(t)
	return time.Date(w.Year(), w.Month(), w.Day(), 0, 0, 0, 0, WarsawTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Warsaw timezone.
func EndOfDay(t time.Time) time.Time {
	w := ToWarsaw(t)
	return time.Date(w.Year(), w.Month(), w.Day(), 23, 59, 59, 999999999, WarsawTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Warsaw timezone.
func StartOfWeek(t time.Time) time.Time {
	w := ToWarsaw(t)
	weekday := int(w.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(w.AddDate(0, 0, -(weekday - 1)))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in Warsaw timezone.
func EndOfWeek(t time.Time) time.Time {
	return EndOfDay(StartOfWeek(t).AddDate(0, 0, 6))
}

// IsSameDay checks if two times are on the same day in Warsaw timezone.
func IsSameDay(t1, t2 time.Time) bool {
	w1, w2 := ToWarsaw(t1), ToWarsaw(t2)
	return w1.Year() == w2.Year() && w1.YearDay() == w2.YearDay()
}

// IsToday checks if the given time is today in Warsaw timezone.
func IsToday(t time.Time) bool {
	return IsSameDay(t, Now())
}

// IsWeekend checks if the given time is on a weekend.
func IsWeekend(t time.Time) bool {
	weekday := ToWarsaw(t).Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// DaysBetween calculates the number of whole days between two times.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// DaysUntil returns the number of whole days from now until the given time.
// Negative when the time has already passed.
func DaysUntil(t time.Time) int {
	return int(StartOfDay(t).Sub(StartOfDay(Now())).Hours() / 24)
}

// InclusiveDays returns the day count of an inclusive date range.
// A one-day stay (start == end) counts as 1.
func InclusiveDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return DaysBetween(start, end) + 1
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatPolishDate is the Polish date format (DD.MM.YYYY).
	FormatPolishDate = "02.01.2006"
)

// FormatWarsaw formats a time in Warsaw timezone with the given layout.
func FormatWarsaw(t time.Time, layout string) string {
	return ToWarsaw(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Warsaw timezone.
func FormatDateStr(t time.Time) string {
	return FormatWarsaw(t, FormatDate)
}

// FormatPolish formats a time in Polish format (DD.MM.YYYY).
func FormatPolish(t time.Time) string {
	return FormatWarsaw(t, FormatPolishDate)
}

// ParseWarsaw parses a time string in Warsaw timezone.
func ParseWarsaw(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, WarsawTZ)
}

// ParseDateWarsaw parses a date string (YYYY-MM-DD) in Warsaw timezone.
func ParseDateWarsaw(value string) (time.Time, error) {
	return ParseWarsaw(FormatDate, value)
}

// FormatDuration renders a fractional-hour duration as "12h 30m".
func FormatDuration(hours float64) string {
	whole := int(hours)
	minutes := int((hours - float64(whole)) * 60)
	if minutes == 0 {
		return fmt.Sprintf("%dh", whole)
	}
	return fmt.Sprintf("%dh %dm", whole, minutes)
}
