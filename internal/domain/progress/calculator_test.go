package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

func halfDoneModule() *specialization.Module {
	return &specialization.Module{
		ID:                           "m1",
		TemplateModuleID:             "tpl-m1",
		CompletedInternships:         1,
		TotalInternships:             2,
		CompletedCourses:             1,
		TotalCourses:                 2,
		CompletedProceduresOperator:  50,
		RequiredProceduresOperator:   100,
		CompletedProceduresAssistant: 10,
		RequiredProceduresAssistant:  20,
		CompletedShiftHours:          60,
		RequiredShiftHours:           120,
	}
}

func TestCalculateModuleProgress_FromCounters(t *testing.T) {
	calc := NewCalculator()
	p := calc.CalculateModuleProgress(halfDoneModule(), nil)

	assert.Equal(t, shared.Percent(50), p.InternshipPercent)
	assert.Equal(t, shared.Percent(50), p.CoursePercent)
	assert.Equal(t, shared.Percent(50), p.OperatorPercent)
	assert.Equal(t, shared.Percent(50), p.AssistantPercent)
	assert.Equal(t, shared.Percent(50), p.ProcedurePercent)
	assert.Equal(t, shared.Percent(50), p.ShiftPercent)
	assert.Equal(t, shared.Percent(50), p.OverallPercent)
}

func TestCalculateModuleProgress_TemplateOverridesRequirements(t *testing.T) {
	calc := NewCalculator()
	tpl := &curriculum.ModuleTemplate{
		ModuleID: "tpl-m1",
		Internships: []curriculum.InternshipTemplate{
			{ID: "i1"}, {ID: "i2"}, {ID: "i3"}, {ID: "i4"},
		},
		Courses: []curriculum.CourseTemplate{{ID: "c1"}},
		Procedures: []curriculum.ProcedureTemplate{
			{ID: "p1", RequiredAsOperator: 200},
		},
		RequiredShiftHours: 240,
	}

	p := calc.CalculateModuleProgress(halfDoneModule(), tpl)

	assert.Equal(t, 4, p.RequiredInternships)
	assert.Equal(t, shared.Percent(25), p.InternshipPercent)
	assert.Equal(t, shared.Percent(100), p.CoursePercent)
	assert.Equal(t, shared.Percent(25), p.OperatorPercent)
	// No assistant requirement in the template, so the operator percentage
	// alone drives the procedure category.
	assert.Equal(t, 0, p.RequiredProceduresAssistant)
	assert.Equal(t, shared.Percent(25), p.ProcedurePercent)
	assert.Equal(t, shared.Percent(25), p.ShiftPercent)
}

func TestCalculateModuleProgress_Idempotent(t *testing.T) {
	calc := NewCalculator()
	tpl := &curriculum.ModuleTemplate{
		ModuleID: "tpl-m1",
		Procedures: []curriculum.ProcedureTemplate{
			{ID: "p1", RequiredAsOperator: 93, RequiredAsAssistant: 7},
		},
		Internships:        []curriculum.InternshipTemplate{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}},
		Courses:            []curriculum.CourseTemplate{{ID: "c1"}, {ID: "c2"}},
		RequiredShiftHours: 160.5,
	}
	m := halfDoneModule()

	first := calc.CalculateModuleProgress(m, tpl)
	second := calc.CalculateModuleProgress(m, tpl)

	// Same module, same template, same record set: the snapshot is a pure
	// function of its inputs and the two results must be identical.
	assert.Equal(t, *first, *second)

	m2 := halfDoneModule()
	third := calc.CalculateModuleProgress(m2, nil)
	fourth := calc.CalculateModuleProgress(m2, nil)
	assert.Equal(t, *third, *fourth)
}

func TestCalculateModuleProgress_ZeroRequirements(t *testing.T) {
	calc := NewCalculator()
	p := calc.CalculateModuleProgress(&specialization.Module{ID: "m1"}, nil)

	assert.Equal(t, shared.Percent(0), p.ProcedurePercent)
	assert.Equal(t, shared.Percent(0), p.OverallPercent)
}

func TestCalculateModuleProgress_ClampsOvercompletion(t *testing.T) {
	calc := NewCalculator()
	m := &specialization.Module{
		ID:                          "m1",
		CompletedProceduresOperator: 300,
		RequiredProceduresOperator:  100,
	}
	p := calc.CalculateModuleProgress(m, nil)

	assert.Equal(t, shared.Percent(100), p.OperatorPercent)
}

func TestCalculateOverallProgress_ScopedToModule(t *testing.T) {
	calc := NewCalculator()
	s := &specialization.Specialization{
		ID:      "spec-1",
		Modules: []*specialization.Module{halfDoneModule()},
	}

	assert.Equal(t, shared.Percent(50), calc.CalculateOverallProgress(s, nil, "m1"))
	assert.Equal(t, shared.Percent(0), calc.CalculateOverallProgress(s, nil, "missing"))
}

func TestCalculateOverallProgress_AggregatesAcrossModules(t *testing.T) {
	calc := NewCalculator()
	done := halfDoneModule()
	done.ID = "m2"
	done.CompletedInternships = 2
	done.CompletedCourses = 2
	done.CompletedProceduresOperator = 100
	done.CompletedProceduresAssistant = 20
	done.CompletedShiftHours = 120

	s := &specialization.Specialization{
		ID:      "spec-1",
		Modules: []*specialization.Module{halfDoneModule(), done},
	}

	// Counts sum before percentages: 3/4, 3/4, 150/200 + 30/40, 180/240.
	assert.Equal(t, shared.Percent(75), calc.CalculateOverallProgress(s, nil, ""))
}

func TestRecountModuleCounters(t *testing.T) {
	calc := NewCalculator()
	m := &specialization.Module{ID: "m1", TemplateModuleID: "tpl-m1"}

	approved := record.Base{ModuleID: "m1", Approved: true}
	unapproved := record.Base{ModuleID: "m1"}
	otherModule := record.Base{ModuleID: "m2", Approved: true}

	snap := &record.Snapshot{
		Procedures: []*record.Procedure{
			{Base: approved, Role: curriculum.RoleOperator, OperatorCount: 3},
			{Base: approved, Role: curriculum.RoleAssistant},
			{Base: unapproved, Role: curriculum.RoleOperator, OperatorCount: 5},
			{Base: otherModule, Role: curriculum.RoleOperator, OperatorCount: 7},
		},
		Shifts: []*record.MedicalShift{
			{Base: approved, Hours: 10, Minutes: 30},
			{Base: unapproved, Hours: 4},
		},
		Internships: []*record.Internship{
			{Base: approved, Completed: true},
			{Base: approved, Completed: false},
		},
		Courses: []*record.Course{
			{Base: approved},
			{Base: unapproved},
		},
	}

	tpl := &curriculum.ModuleTemplate{
		ModuleID:           "tpl-m1",
		Internships:        []curriculum.InternshipTemplate{{ID: "i1"}, {ID: "i2"}},
		Courses:            []curriculum.CourseTemplate{{ID: "c1"}},
		Procedures:         []curriculum.ProcedureTemplate{{ID: "p1", RequiredAsOperator: 10, RequiredAsAssistant: 5}},
		RequiredShiftHours: 160,
		WeeklyShiftHours:   10.0833,
	}

	calc.RecountModuleCounters(m, tpl, snap)

	assert.Equal(t, 3, m.CompletedProceduresOperator)
	assert.Equal(t, 1, m.CompletedProceduresAssistant)
	assert.InDelta(t, 10.5, m.CompletedShiftHours, 0.001)
	assert.Equal(t, 1, m.CompletedInternships)
	assert.Equal(t, 1, m.CompletedCourses)

	// Requirements come from the template.
	assert.Equal(t, 2, m.TotalInternships)
	assert.Equal(t, 1, m.TotalCourses)
	assert.Equal(t, 10, m.RequiredProceduresOperator)
	assert.Equal(t, 5, m.RequiredProceduresAssistant)
	assert.Equal(t, 160.0, m.RequiredShiftHours)
}

func TestCalculateYearStatistics_LegacyTrack(t *testing.T) {
	calc := NewCalculator()
	start := time.Date(2020, 10, 1, 0, 0, 0, 0, time.UTC)
	s := &specialization.Specialization{
		ID:            "spec-1",
		ResidentID:    "res-1",
		ProgramCode:   "0706",
		Track:         curriculum.TrackLegacy,
		StartDate:     start,
		DurationYears: 2,
	}

	snap := &record.Snapshot{
		Procedures: []*record.Procedure{
			{Base: record.Base{Year: 1}},
			{Base: record.Base{Year: 1}},
			{Base: record.Base{Year: 2}},
			// Unassigned records count toward every concrete year.
			{Base: record.Base{Year: 0}},
		},
		Shifts: []*record.MedicalShift{
			{Base: record.Base{Year: 1}, Hours: 12},
			{Base: record.Base{Year: 2}, Hours: 6, Minutes: 30},
		},
		Internships: []*record.Internship{
			{Base: record.Base{Year: 1}, Range: shared.DateRange{
				Start: start,
				End:   start.AddDate(0, 0, 6),
			}},
		},
		Courses: []*record.Course{
			{Base: record.Base{Year: 2, Approved: true}},
			{Base: record.Base{Year: 2}},
		},
	}

	stats := calc.CalculateYearStatistics(s, snap)
	require.Len(t, stats, 2)

	assert.Equal(t, 1, stats[0].Year)
	assert.Equal(t, 3, stats[0].ProcedureCount)
	assert.Equal(t, 12.0, stats[0].ShiftHours)
	assert.Equal(t, 7, stats[0].InternshipDays)
	assert.Equal(t, 0, stats[0].CompletedCourse)

	assert.Equal(t, 2, stats[1].Year)
	assert.Equal(t, 2, stats[1].ProcedureCount)
	assert.InDelta(t, 6.5, stats[1].ShiftHours, 0.001)
	assert.Equal(t, 1, stats[1].CompletedCourse)
}

func TestCalculateYearStatistics_ModularTrackEmpty(t *testing.T) {
	calc := NewCalculator()
	s := &specialization.Specialization{Track: curriculum.TrackModular}

	assert.Nil(t, calc.CalculateYearStatistics(s, &record.Snapshot{}))
}
