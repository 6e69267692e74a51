package templatestore

import (
	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRY WIRE FORMAT
// DTOs mirror the registry's JSON schema and are mapped into domain types at
// the boundary. The registry owns the schema; domain types never carry tags.
// ══════════════════════════════════════════════════════════════════════════════

type templateDTO struct {
	ProgramCode   string      `json:"program_code"`
	ProgramName   string      `json:"program_name"`
	Track         string      `json:"track"`
	Version       string      `json:"version"`
	DurationYears int         `json:"duration_years"`
	Modules       []moduleDTO `json:"modules"`
}

type moduleDTO struct {
	ModuleID                  string          `json:"module_id"`
	Name                      string          `json:"name"`
	Kind                      string          `json:"kind"`
	DurationMonths            int             `json:"duration_months"`
	Procedures                []procedureDTO  `json:"procedures"`
	Courses                   []courseDTO     `json:"courses"`
	Internships               []internshipDTO `json:"internships"`
	RequiredShiftHours        float64         `json:"required_shift_hours"`
	WeeklyShiftHours          float64         `json:"weekly_shift_hours"`
	RequiredSelfEducationDays int             `json:"required_self_education_days"`
}

type procedureDTO struct {
	ID                  string `json:"id"`
	Code                string `json:"code"`
	Name                string `json:"name"`
	Type                string `json:"type"`
	RequiredAsOperator  int    `json:"required_as_operator"`
	RequiredAsAssistant int    `json:"required_as_assistant"`
	InternshipID        string `json:"internship_id"`
}

type courseDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Mandatory    bool   `json:"mandatory"`
	DurationDays int    `json:"duration_days"`
}

type internshipDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	RequiredWorkingDays int    `json:"required_working_days"`
}

func (d templateDTO) toDomain() *curriculum.Template {
	tpl := &curriculum.Template{
		ProgramCode:   d.ProgramCode,
		ProgramName:   d.ProgramName,
		Track:         curriculum.Track(d.Track),
		Version:       d.Version,
		DurationYears: d.DurationYears,
		Modules:       make([]curriculum.ModuleTemplate, 0, len(d.Modules)),
	}
	for _, m := range d.Modules {
		tpl.Modules = append(tpl.Modules, m.toDomain())
	}
	return tpl
}

func (d moduleDTO) toDomain() curriculum.ModuleTemplate {
	m := curriculum.ModuleTemplate{
		ModuleID:                  d.ModuleID,
		Name:                      d.Name,
		Kind:                      curriculum.ModuleKind(d.Kind),
		DurationMonths:            d.DurationMonths,
		RequiredShiftHours:        d.RequiredShiftHours,
		WeeklyShiftHours:          d.WeeklyShiftHours,
		RequiredSelfEducationDays: d.RequiredSelfEducationDays,
		Procedures:                make([]curriculum.ProcedureTemplate, 0, len(d.Procedures)),
		Courses:                   make([]curriculum.CourseTemplate, 0, len(d.Courses)),
		Internships:               make([]curriculum.InternshipTemplate, 0, len(d.Internships)),
	}
	for _, p := range d.Procedures {
		m.Procedures = append(m.Procedures, curriculum.ProcedureTemplate{
			ID:                  p.ID,
			Code:                p.Code,
			Name:                p.Name,
			Type:                p.Type,
			RequiredAsOperator:  p.RequiredAsOperator,
			RequiredAsAssistant: p.RequiredAsAssistant,
			InternshipID:        p.InternshipID,
		})
	}
	for _, c := range d.Courses {
		m.Courses = append(m.Courses, curriculum.CourseTemplate{
			ID:           c.ID,
			Name:         c.Name,
			Mandatory:    c.Mandatory,
			DurationDays: c.DurationDays,
		})
	}
	for _, i := range d.Internships {
		m.Internships = append(m.Internships, curriculum.InternshipTemplate{
			ID:                  i.ID,
			Name:                i.Name,
			RequiredWorkingDays: i.RequiredWorkingDays,
		})
	}
	return m
}

func fromDomain(tpl *curriculum.Template) templateDTO {
	d := templateDTO{
		ProgramCode:   tpl.ProgramCode,
		ProgramName:   tpl.ProgramName,
		Track:         string(tpl.Track),
		Version:       tpl.Version,
		DurationYears: tpl.DurationYears,
		Modules:       make([]moduleDTO, 0, len(tpl.Modules)),
	}
	for i := range tpl.Modules {
		m := &tpl.Modules[i]
		md := moduleDTO{
			ModuleID:                  m.ModuleID,
			Name:                      m.Name,
			Kind:                      string(m.Kind),
			DurationMonths:            m.DurationMonths,
			RequiredShiftHours:        m.RequiredShiftHours,
			WeeklyShiftHours:          m.WeeklyShiftHours,
			RequiredSelfEducationDays: m.RequiredSelfEducationDays,
		}
		for _, p := range m.Procedures {
			md.Procedures = append(md.Procedures, procedureDTO{
				ID:                  p.ID,
				Code:                p.Code,
				Name:                p.Name,
				Type:                p.Type,
				RequiredAsOperator:  p.RequiredAsOperator,
				RequiredAsAssistant: p.RequiredAsAssistant,
				InternshipID:        p.InternshipID,
			})
		}
		for _, c := range m.Courses {
			md.Courses = append(md.Courses, courseDTO{
				ID:           c.ID,
				Name:         c.Name,
				Mandatory:    c.Mandatory,
				DurationDays: c.DurationDays,
			})
		}
		for _, in := range m.Internships {
			md.Internships = append(md.Internships, internshipDTO{
				ID:                  in.ID,
				Name:                in.Name,
				RequiredWorkingDays: in.RequiredWorkingDays,
			})
		}
		d.Modules = append(d.Modules, md)
	}
	return d
}
