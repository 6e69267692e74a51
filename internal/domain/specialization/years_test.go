package specialization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

func legacySpec(durationYears int, start, plannedEnd time.Time) *Specialization {
	return &Specialization{
		ID:             "spec-1",
		ResidentID:     "res-1",
		ProgramCode:    "0706",
		Track:          curriculum.TrackLegacy,
		StartDate:      start,
		PlannedEndDate: plannedEnd,
		DurationYears:  durationYears,
	}
}

func TestAvailableYears_ModularTrackHasNone(t *testing.T) {
	s := legacySpec(5, time.Time{}, time.Time{})
	s.Track = curriculum.TrackModular

	assert.Empty(t, AvailableYears(s))
}

func TestAvailableYears_LegacyWholeYears(t *testing.T) {
	start := time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(5, 0, 0)

	years := AvailableYears(legacySpec(5, start, end))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, years)
}

func TestAvailableYears_LongRemainderAddsYear(t *testing.T) {
	start := time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC)
	// Two months past the whole-year mark.
	end := start.AddDate(4, 2, 0)

	years := AvailableYears(legacySpec(4, start, end))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, years)
}

func TestAvailableYears_ShortRemainderDoesNot(t *testing.T) {
	start := time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC)
	// 20 days past the whole-year mark stays within the threshold.
	end := start.AddDate(4, 0, 20)

	years := AvailableYears(legacySpec(4, start, end))
	assert.Equal(t, []int{1, 2, 3, 4}, years)
}

func TestAvailableYears_ClampedToBounds(t *testing.T) {
	assert.Equal(t, []int{1}, AvailableYears(legacySpec(0, time.Time{}, time.Time{})))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, AvailableYears(legacySpec(9, time.Time{}, time.Time{})))
}

func TestModuleYearRange(t *testing.T) {
	s := legacySpec(5, time.Time{}, time.Time{})
	basic := &Module{ID: "m1", Kind: curriculum.KindBasic}
	specialist := &Module{ID: "m2", Kind: curriculum.KindSpecialist}

	assert.Equal(t, shared.YearRange{Min: 1, Max: 2}, ModuleYearRange(basic, s))

	// Specialist range depends on whether the program has a basic phase.
	s.Modules = []*Module{basic, specialist}
	assert.Equal(t, shared.YearRange{Min: 3, Max: 6}, ModuleYearRange(specialist, s))

	s.Modules = []*Module{specialist}
	assert.Equal(t, shared.YearRange{Min: 1, Max: 6}, ModuleYearRange(specialist, s))
}

func TestIsYearValidForModule(t *testing.T) {
	s := legacySpec(5, time.Time{}, time.Time{})
	basic := &Module{ID: "m1", Kind: curriculum.KindBasic}
	specialist := &Module{ID: "m2", Kind: curriculum.KindSpecialist}
	s.Modules = []*Module{basic, specialist}

	// Unassigned is always fine.
	assert.True(t, IsYearValidForModule(0, basic, s))

	assert.True(t, IsYearValidForModule(2, basic, s))
	assert.False(t, IsYearValidForModule(3, basic, s))
	assert.True(t, IsYearValidForModule(4, specialist, s))
	assert.False(t, IsYearValidForModule(2, specialist, s))

	// Modular track rejects any concrete year.
	s.Track = curriculum.TrackModular
	assert.False(t, IsYearValidForModule(1, basic, s))
	assert.True(t, IsYearValidForModule(0, basic, s))
}
