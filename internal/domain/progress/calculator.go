// Package progress computes completion statistics from module counters and
// curriculum templates. The calculator is read-only and idempotent: the same
// inputs always produce the same output and nothing is mutated as a side
// effect of asking.
package progress

import (
	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORY WEIGHTS
// Policy constants, not per-template configuration. They sum to 100.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// WeightInternships - share of internship completion in overall progress.
	WeightInternships = 0.35

	// WeightCourses - share of course completion.
	WeightCourses = 0.25

	// WeightProcedures - share of procedure completion (average of the
	// operator and assistant role percentages).
	WeightProcedures = 0.30

	// WeightShiftHours - share of medical shift hours.
	WeightShiftHours = 0.10
)

// ModuleProgress is a derived, ephemeral per-module snapshot. It is never
// stored; callers recompute it from current counters on each request.
type ModuleProgress struct {
	// ModuleID - the module this snapshot describes.
	ModuleID string

	// Per-category completed vs required counts.
	CompletedInternships int
	RequiredInternships  int

	CompletedCourses int
	RequiredCourses  int

	CompletedProceduresOperator  int
	RequiredProceduresOperator   int
	CompletedProceduresAssistant int
	RequiredProceduresAssistant  int

	CompletedShiftHours float64
	RequiredShiftHours  float64

	CompletedSelfEducationDays int
	RequiredSelfEducationDays  int

	// Per-category percentages, each clamped to [0, 100].
	InternshipPercent shared.Percent
	CoursePercent     shared.Percent
	OperatorPercent   shared.Percent
	AssistantPercent  shared.Percent
	ProcedurePercent  shared.Percent
	ShiftPercent      shared.Percent

	// OverallPercent - weighted overall percentage, rounded to 2 decimals.
	OverallPercent shared.Percent
}

// Calculator derives progress statistics. Stateless.
type Calculator struct{}

// NewCalculator creates a progress calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateModuleProgress computes the snapshot for one module. Completed
// counts come from the module's cached counters; required counts come from
// the template when one is provided, falling back to the counters' own
// required fields when tpl is nil (legacy data without a published template).
func (c *Calculator) CalculateModuleProgress(m *specialization.Module, tpl *curriculum.ModuleTemplate) *ModuleProgress {
	p := &ModuleProgress{
		ModuleID:                     m.ID,
		CompletedInternships:         m.CompletedInternships,
		RequiredInternships:          m.TotalInternships,
		CompletedCourses:             m.CompletedCourses,
		RequiredCourses:              m.TotalCourses,
		CompletedProceduresOperator:  m.CompletedProceduresOperator,
		RequiredProceduresOperator:   m.RequiredProceduresOperator,
		CompletedProceduresAssistant: m.CompletedProceduresAssistant,
		RequiredProceduresAssistant:  m.RequiredProceduresAssistant,
		CompletedShiftHours:          m.CompletedShiftHours,
		RequiredShiftHours:           m.RequiredShiftHours,
		CompletedSelfEducationDays:   m.CompletedSelfEducationDays,
		RequiredSelfEducationDays:    m.RequiredSelfEducationDays,
	}

	if tpl != nil {
		p.RequiredInternships = len(tpl.Internships)
		p.RequiredCourses = len(tpl.Courses)
		p.RequiredProceduresOperator = tpl.RequiredProcedures(curriculum.RoleOperator)
		p.RequiredProceduresAssistant = tpl.RequiredProcedures(curriculum.RoleAssistant)
		p.RequiredShiftHours = tpl.RequiredShiftHours
		p.RequiredSelfEducationDays = tpl.RequiredSelfEducationDays
	}

	p.InternshipPercent = shared.Ratio(float64(p.CompletedInternships), float64(p.RequiredInternships))
	p.CoursePercent = shared.Ratio(float64(p.CompletedCourses), float64(p.RequiredCourses))
	p.OperatorPercent = shared.Ratio(float64(p.CompletedProceduresOperator), float64(p.RequiredProceduresOperator))
	p.AssistantPercent = shared.Ratio(float64(p.CompletedProceduresAssistant), float64(p.RequiredProceduresAssistant))
	p.ProcedurePercent = procedurePercent(p)
	p.ShiftPercent = shared.Ratio(p.CompletedShiftHours, p.RequiredShiftHours)

	p.OverallPercent = weightedOverall(p)
	return p
}

// CalculateOverallProgress aggregates progress across the specialization.
// When moduleID is non-empty the computation is scoped to that module;
// otherwise counts are summed across all modules. The result is clamped to
// [0, 100] and rounded to 2 decimal places.
func (c *Calculator) CalculateOverallProgress(s *specialization.Specialization, tpl *curriculum.Template, moduleID string) shared.Percent {
	if moduleID != "" {
		m := s.ModuleByID(moduleID)
		if m == nil {
			return 0
		}
		var mt *curriculum.ModuleTemplate
		if tpl != nil {
			mt = tpl.FindModule(m.TemplateModuleID)
		}
		return c.CalculateModuleProgress(m, mt).OverallPercent
	}

	agg := &ModuleProgress{}
	for _, m := range s.Modules {
		var mt *curriculum.ModuleTemplate
		if tpl != nil {
			mt = tpl.FindModule(m.TemplateModuleID)
		}
		mp := c.CalculateModuleProgress(m, mt)
		agg.CompletedInternships += mp.CompletedInternships
		agg.RequiredInternships += mp.RequiredInternships
		agg.CompletedCourses += mp.CompletedCourses
		agg.RequiredCourses += mp.RequiredCourses
		agg.CompletedProceduresOperator += mp.CompletedProceduresOperator
		agg.RequiredProceduresOperator += mp.RequiredProceduresOperator
		agg.CompletedProceduresAssistant += mp.CompletedProceduresAssistant
		agg.RequiredProceduresAssistant += mp.RequiredProceduresAssistant
		agg.CompletedShiftHours += mp.CompletedShiftHours
		agg.RequiredShiftHours += mp.RequiredShiftHours
	}

	agg.InternshipPercent = shared.Ratio(float64(agg.CompletedInternships), float64(agg.RequiredInternships))
	agg.CoursePercent = shared.Ratio(float64(agg.CompletedCourses), float64(agg.RequiredCourses))
	agg.OperatorPercent = shared.Ratio(float64(agg.CompletedProceduresOperator), float64(agg.RequiredProceduresOperator))
	agg.AssistantPercent = shared.Ratio(float64(agg.CompletedProceduresAssistant), float64(agg.RequiredProceduresAssistant))
	agg.ProcedurePercent = procedurePercent(agg)
	agg.ShiftPercent = shared.Ratio(agg.CompletedShiftHours, agg.RequiredShiftHours)

	return weightedOverall(agg)
}

// procedurePercent averages the two role percentages. When only one role has
// a requirement the other does not dilute the result.
func procedurePercent(p *ModuleProgress) shared.Percent {
	hasOperator := p.RequiredProceduresOperator > 0
	hasAssistant := p.RequiredProceduresAssistant > 0
	switch {
	case hasOperator && hasAssistant:
		return shared.Percent((p.OperatorPercent.Float64() + p.AssistantPercent.Float64()) / 2).Clamp()
	case hasOperator:
		return p.OperatorPercent
	case hasAssistant:
		return p.AssistantPercent
	default:
		return 0
	}
}

func weightedOverall(p *ModuleProgress) shared.Percent {
	overall := p.InternshipPercent.Float64()*WeightInternships +
		p.CoursePercent.Float64()*WeightCourses +
		p.ProcedurePercent.Float64()*WeightProcedures +
		p.ShiftPercent.Float64()*WeightShiftHours
	return shared.Percent(overall).Clamp().Round2()
}
