package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

func progressionValidator() *ProgressionValidator {
	return NewProgressionValidator(progress.NewCalculator()).WithClock(testClock())
}

// switchSpec has an active basic module and two switch candidates inside
// open validity windows.
func switchSpec() *specialization.Specialization {
	now := testClock()()
	return &specialization.Specialization{
		ID:          "spec-1",
		ResidentID:  "res-1",
		ProgramCode: "0706",
		Track:       curriculum.TrackModular,
		Modules: []*specialization.Module{
			{
				ID: "m1", TemplateModuleID: "tpl-basic", Name: "Moduł podstawowy",
				Kind: curriculum.KindBasic, Status: specialization.StatusActive,
				StartDate: now.AddDate(-1, 0, 0), EndDate: now.AddDate(1, 0, 0),
			},
			{
				ID: "m2", TemplateModuleID: "tpl-basic-2", Name: "Moduł podstawowy II",
				Kind: curriculum.KindBasic, Status: specialization.StatusNotStarted,
				StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(2, 0, 0),
			},
			{
				ID: "m3", TemplateModuleID: "tpl-spec", Name: "Moduł specjalistyczny",
				Kind: curriculum.KindSpecialist, Status: specialization.StatusNotStarted,
				StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(3, 0, 0),
			},
		},
		CurrentModuleID: "m1",
	}
}

func TestCanSwitchModule_Allowed(t *testing.T) {
	v := progressionValidator()
	res := v.CanSwitchModule(switchSpec(), nil, "m2")

	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
}

func TestCanSwitchModule_UnknownModule(t *testing.T) {
	v := progressionValidator()
	res := v.CanSwitchModule(switchSpec(), nil, "m9")

	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeModuleNotFound))
}

func TestCanSwitchModule_KindMismatch(t *testing.T) {
	v := progressionValidator()
	res := v.CanSwitchModule(switchSpec(), nil, "m3")

	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeModuleTypeMismatch))
}

func TestCanSwitchModule_WindowViolations(t *testing.T) {
	v := progressionValidator()
	now := testClock()()

	s := switchSpec()
	s.Modules[1].StartDate = now.AddDate(0, 1, 0)
	res := v.CanSwitchModule(s, nil, "m2")
	assert.True(t, res.HasCode(CodeModuleNotStarted))

	s = switchSpec()
	s.Modules[1].StartDate = now.AddDate(-1, 0, 0)
	s.Modules[1].EndDate = now.AddDate(0, 0, -1)
	res = v.CanSwitchModule(s, nil, "m2")
	assert.True(t, res.HasCode(CodeModuleExpired))
}

func TestCanSwitchModule_CompletedTarget(t *testing.T) {
	v := progressionValidator()
	s := switchSpec()
	s.Modules[1].Status = specialization.StatusCompleted

	res := v.CanSwitchModule(s, nil, "m2")
	assert.True(t, res.HasCode(CodeModuleCompleted))
}

func TestCanSwitchModule_TrackMismatch(t *testing.T) {
	v := progressionValidator()
	tpl := &curriculum.Template{
		ProgramCode: "0706",
		Track:       curriculum.TrackModular,
		Modules:     []curriculum.ModuleTemplate{{ModuleID: "tpl-basic"}},
	}

	// m2's template module is absent from the published curriculum.
	res := v.CanSwitchModule(switchSpec(), tpl, "m2")
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeTrackMismatch))
}

func TestCanSwitchModule_ProgressDiscardWarning(t *testing.T) {
	v := progressionValidator()
	s := switchSpec()
	// Push the active module past the 25% warning threshold.
	s.Modules[0].CompletedInternships = 1
	s.Modules[0].TotalInternships = 1
	s.Modules[0].CompletedCourses = 1
	s.Modules[0].TotalCourses = 1

	res := v.CanSwitchModule(s, nil, "m2")
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeProgressDiscard))
}

func completableModule() *specialization.Module {
	now := testClock()()
	return &specialization.Module{
		ID: "m1", Name: "Moduł podstawowy",
		Status:    specialization.StatusActive,
		StartDate: now.AddDate(-2, 0, 0),
		EndDate:   now.AddDate(1, 0, 0),

		CompletedInternships:         2,
		TotalInternships:             2,
		CompletedCourses:             3,
		TotalCourses:                 3,
		CompletedProceduresOperator:  100,
		RequiredProceduresOperator:   100,
		CompletedProceduresAssistant: 20,
		RequiredProceduresAssistant:  20,
		CompletedShiftHours:          480,
		RequiredShiftHours:           480,
	}
}

func TestCanCompleteModule_AllRequirementsMet(t *testing.T) {
	v := progressionValidator()
	res := v.CanCompleteModule(completableModule(), nil)

	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
}

func TestCanCompleteModule_ReportsEachShortfall(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	m.CompletedInternships = 1
	m.CompletedProceduresOperator = 93

	res := v.CanCompleteModule(m, nil)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeShortfall))
	assert.Contains(t, res.Summary(), "internships shortfall: 1 more required (1 of 2)")
	assert.Contains(t, res.Summary(), "procedures_operator shortfall: 7 more required (93 of 100)")
	// Both counter gaps plus the overall threshold gate.
	assert.Len(t, res.Errors, 3)
	assert.True(t, res.HasCode(CodeBelowThreshold))
}

func TestCanCompleteModule_SmallGapStillBelowThreshold(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	// 99 of 100 operator procedures leaves overall above 95%, but the
	// counter shortfall alone blocks completion.
	m.CompletedProceduresOperator = 99

	res := v.CanCompleteModule(m, nil)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeShortfall))
	assert.False(t, res.HasCode(CodeBelowThreshold))
}

func TestCanCompleteModule_ExpiredBlocks(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	m.EndDate = testClock()().AddDate(0, 0, -1)

	res := v.CanCompleteModule(m, nil)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeEndDatePassed))
}

func TestCanCompleteModule_EndDateApproachingWarns(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	m.EndDate = testClock()().AddDate(0, 0, 14)

	res := v.CanCompleteModule(m, nil)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeEndDateApproaching))
}

func TestCanCompleteModule_TemplateRaisesRequirements(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	mt := &curriculum.ModuleTemplate{
		ModuleID:    "tpl-basic",
		Internships: []curriculum.InternshipTemplate{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}},
		Courses:     []curriculum.CourseTemplate{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}},
		Procedures: []curriculum.ProcedureTemplate{
			{ID: "p1", RequiredAsOperator: 100, RequiredAsAssistant: 20},
		},
		RequiredShiftHours: 480,
	}

	res := v.CanCompleteModule(m, mt)
	assert.False(t, res.IsValid())
	assert.Contains(t, res.Summary(), "internships shortfall: 1 more required (2 of 3)")
}

func TestCanCompleteModule_ThresholdMessage(t *testing.T) {
	v := progressionValidator()
	m := completableModule()
	m.CompletedShiftHours = 0

	res := v.CanCompleteModule(m, nil)
	require.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeBelowThreshold))
	assert.Contains(t, res.Summary(), "below the 95% completion threshold")
}
