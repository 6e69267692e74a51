package shared

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ID represents a UUID-formatted entity identifier.
type ID string

// IsValid checks if the ID is a valid UUID.
func (i ID) IsValid() bool {
	return uuidRegex.MatchString(string(i))
}

// IsEmpty checks if the ID is empty.
func (i ID) IsEmpty() bool {
	return i == ""
}

// String returns the string representation.
func (i ID) String() string {
	return string(i)
}

// NewID creates a new ID with validation.
func NewID(id string) (ID, error) {
	v := ID(strings.ToLower(strings.TrimSpace(id)))
	if !v.IsValid() {
		return "", NewDomainError("shared", "NewID", ErrInvalidID, "invalid UUID format")
	}
	return v, nil
}

// ProgramCode identifies a specialization program in the national registry
// (e.g., "0706" for cardiology). Codes are short digit strings.
type ProgramCode string

var programCodeRegex = regexp.MustCompile(`^[0-9]{3,6}$`)

// IsValid checks if the program code has registry format.
func (p ProgramCode) IsValid() bool {
	return programCodeRegex.MatchString(string(p))
}

// String returns the string representation.
func (p ProgramCode) String() string {
	return string(p)
}

// ═══════════════════════════════════════════════════════════════════════════
// Numeric Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// Percent represents a completion percentage in [0, 100].
type Percent float64

// Clamp limits the percentage to [0, 100].
func (p Percent) Clamp() Percent {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Round2 rounds the percentage to two decimal places.
func (p Percent) Round2() Percent {
	return Percent(math.Round(float64(p)*100) / 100)
}

// Float64 returns the underlying float64 value.
func (p Percent) Float64() float64 {
	return float64(p)
}

// Ratio computes completed/required as a clamped percentage.
// A zero or negative required count yields 0, never a division by zero:
// an absent requirement counts as no progress, not full progress.
func Ratio(completed, required float64) Percent {
	if required <= 0 {
		return 0
	}
	return Percent(completed / required * 100).Clamp()
}

// ═══════════════════════════════════════════════════════════════════════════
// Date Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// DateRange represents an inclusive calendar date span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsValid checks that the range is ordered.
func (r DateRange) IsValid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

// Contains reports whether t falls inside the range (inclusive on both ends).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the inclusive day count spanned by the range.
// A range starting and ending on the same day counts as 1 day.
func (r DateRange) Days() int {
	if !r.IsValid() {
		return 0
	}
	start := truncateToDay(r.Start)
	end := truncateToDay(r.End)
	return int(end.Sub(start).Hours()/24) + 1
}

// String returns a human-readable representation.
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// YearRange represents an inclusive span of training years (legacy track).
type YearRange struct {
	Min int
	Max int
}

// Contains reports whether the year falls inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Years returns the range as an ascending slice.
func (r YearRange) Years() []int {
	if r.Max < r.Min {
		return nil
	}
	years := make([]int, 0, r.Max-r.Min+1)
	for y := r.Min; y <= r.Max; y++ {
		years = append(years, y)
	}
	return years
}
