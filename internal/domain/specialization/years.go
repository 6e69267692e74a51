package specialization

import (
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// YEAR / MODULE RANGE RESOLVER
// Training years exist only on the legacy track. The modular track indexes
// everything by module and treats year 0 ("unassigned") as the only valid
// assignment.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// minProgramYears / maxProgramYears bound the derived year count.
	minProgramYears = 1
	maxProgramYears = 6

	// partialYearThresholdDays - a remainder beyond whole years longer than
	// this adds one more training year.
	partialYearThresholdDays = 30
)

// AvailableYears returns the training years a record may be assigned to.
// Modular track: empty - years are not a concept there.
// Legacy track: 1..totalYears, clamped to [1, 6]; a planned duration whose
// remainder beyond whole years exceeds 30 days adds one year.
func AvailableYears(s *Specialization) []int {
	if s.Track == curriculum.TrackModular {
		return nil
	}

	totalYears := s.DurationYears
	if !s.StartDate.IsZero() && !s.PlannedEndDate.IsZero() && s.PlannedEndDate.After(s.StartDate) {
		wholeYearsEnd := s.StartDate.AddDate(s.DurationYears, 0, 0)
		if remainder := s.PlannedEndDate.Sub(wholeYearsEnd); remainder > partialYearThresholdDays*24*time.Hour {
			totalYears++
		}
	}

	if totalYears < minProgramYears {
		totalYears = minProgramYears
	}
	if totalYears > maxProgramYears {
		totalYears = maxProgramYears
	}

	return shared.YearRange{Min: 1, Max: totalYears}.Years()
}

// ModuleYearRange returns the training years a module spans.
// Basic modules cover years 1-2. Specialist modules cover 3-6 when the
// program has a basic phase, and the whole 1-6 span when it does not.
func ModuleYearRange(m *Module, s *Specialization) shared.YearRange {
	if m.Kind == curriculum.KindBasic {
		return shared.YearRange{Min: 1, Max: 2}
	}
	if s.HasBasicModule() {
		return shared.YearRange{Min: 3, Max: maxProgramYears}
	}
	return shared.YearRange{Min: 1, Max: maxProgramYears}
}

// IsYearValidForModule reports whether a record's year assignment fits the
// module. Year 0 denotes "unassigned" and is always valid. The modular track
// accepts only year 0.
func IsYearValidForModule(year int, m *Module, s *Specialization) bool {
	if year == 0 {
		return true
	}
	if !curriculum.PolicyFor(s.Track).AcceptsYear(year) {
		return false
	}
	return ModuleYearRange(m, s).Contains(year)
}
