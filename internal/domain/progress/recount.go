package progress

import (
	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNTER RECOUNT
// Module counters are a cache of the record population. This is the single
// writer of that cache: it recomputes every counter from a consistent record
// snapshot. Persisting the result is the caller's concern.
// ══════════════════════════════════════════════════════════════════════════════

// RecountModuleCounters recomputes the cached counters of one module from the
// given snapshot. Only approved records count toward completion; "completed
// but not yet synced" records still count - sync status is advisory.
func (c *Calculator) RecountModuleCounters(m *specialization.Module, tpl *curriculum.ModuleTemplate, snap *record.Snapshot) {
	inModule := record.ProcedureInModule(m.ID).And(record.ProcedureApproved())

	operator := 0
	assistant := 0
	for _, p := range shared.Filter(snap.Procedures, inModule) {
		operator += p.CountFor(curriculum.RoleOperator)
		assistant += p.CountFor(curriculum.RoleAssistant)
	}
	m.CompletedProceduresOperator = operator
	m.CompletedProceduresAssistant = assistant

	hours := 0.0
	for _, s := range shared.Filter(snap.Shifts, record.ShiftInModule(m.ID)) {
		if s.Approved {
			hours += s.TotalHours()
		}
	}
	m.CompletedShiftHours = hours

	m.CompletedInternships = shared.Count(snap.Internships,
		record.InternshipInModule(m.ID).And(record.InternshipCompleted()))

	m.CompletedCourses = shared.Count(snap.Courses,
		record.CourseInModule(m.ID).And(record.CourseApproved()))

	if tpl != nil {
		m.TotalInternships = len(tpl.Internships)
		m.TotalCourses = len(tpl.Courses)
		m.RequiredProceduresOperator = tpl.RequiredProcedures(curriculum.RoleOperator)
		m.RequiredProceduresAssistant = tpl.RequiredProcedures(curriculum.RoleAssistant)
		m.RequiredShiftHours = tpl.RequiredShiftHours
		m.WeeklyShiftHours = tpl.WeeklyShiftHours
		m.RequiredSelfEducationDays = tpl.RequiredSelfEducationDays
	}
}

// RecountAll recomputes counters for every module of the specialization
// against one snapshot.
func (c *Calculator) RecountAll(s *specialization.Specialization, tpl *curriculum.Template, snap *record.Snapshot) {
	for _, m := range s.Modules {
		var mt *curriculum.ModuleTemplate
		if tpl != nil {
			mt = tpl.FindModule(m.TemplateModuleID)
		}
		c.RecountModuleCounters(m, mt, snap)
	}
}

// YearStatistics summarizes legacy-track records for one training year.
type YearStatistics struct {
	Year            int
	ProcedureCount  int
	ShiftHours      float64
	InternshipDays  int
	CompletedCourse int
}

// CalculateYearStatistics aggregates records per training year under the
// track policy. On the modular track the result is always empty.
func (c *Calculator) CalculateYearStatistics(s *specialization.Specialization, snap *record.Snapshot) []YearStatistics {
	policy := curriculum.PolicyFor(s.Track)
	years := AvailableYearsOf(s)
	if len(years) == 0 {
		return nil
	}

	stats := make([]YearStatistics, 0, len(years))
	for _, year := range years {
		st := YearStatistics{Year: year}
		st.ProcedureCount = shared.Count(snap.Procedures, record.ProcedureInYear(policy, year))
		for _, sh := range shared.Filter(snap.Shifts, record.ShiftInYear(policy, year)) {
			st.ShiftHours += sh.TotalHours()
		}
		for _, in := range snap.Internships {
			if policy.IncludeInYearStatistics(in.Year, year) {
				st.InternshipDays += in.DurationDays()
			}
		}
		for _, co := range snap.Courses {
			if policy.IncludeInYearStatistics(co.Year, year) && co.Approved {
				st.CompletedCourse++
			}
		}
		stats = append(stats, st)
	}
	return stats
}

// AvailableYearsOf re-exports the year resolver for callers that already
// depend on this package.
func AvailableYearsOf(s *specialization.Specialization) []int {
	return specialization.AvailableYears(s)
}
