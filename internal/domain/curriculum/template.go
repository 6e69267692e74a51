// Package curriculum contains the immutable reference data describing an
// official specialization program: which modules it consists of and what each
// module requires. Templates are keyed by (program code, track) and never
// carry resident progress. No external dependencies here.
package curriculum

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRACK AND ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Track identifies the curriculum numbering scheme a specialization follows.
type Track string

const (
	// TrackLegacy - the pre-reform, year-indexed curriculum.
	TrackLegacy Track = "legacy"

	// TrackModular - the current, module-indexed curriculum.
	TrackModular Track = "modular"
)

// IsValid checks that the track is a known value.
func (t Track) IsValid() bool {
	return t == TrackLegacy || t == TrackModular
}

// String returns the string representation.
func (t Track) String() string {
	return string(t)
}

// UsesYears reports whether this track indexes records by training year.
func (t Track) UsesYears() bool {
	return t == TrackLegacy
}

// ModuleKind identifies the phase a module belongs to.
type ModuleKind string

const (
	// KindBasic - the common basic phase shared by related programs.
	KindBasic ModuleKind = "basic"

	// KindSpecialist - the program-specific specialist phase.
	KindSpecialist ModuleKind = "specialist"
)

// IsValid checks that the kind is a known value.
func (k ModuleKind) IsValid() bool {
	return k == KindBasic || k == KindSpecialist
}

// String returns the string representation.
func (k ModuleKind) String() string {
	return string(k)
}

// ExecutionRole identifies how the resident took part in a procedure.
type ExecutionRole string

const (
	// RoleOperator - resident performed the procedure as primary operator.
	RoleOperator ExecutionRole = "operator"

	// RoleAssistant - resident assisted during the procedure.
	RoleAssistant ExecutionRole = "assistant"
)

// IsValid checks that the role is a known value.
func (r ExecutionRole) IsValid() bool {
	return r == RoleOperator || r == RoleAssistant
}

// String returns the string representation.
func (r ExecutionRole) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEMPLATE MODEL
// ══════════════════════════════════════════════════════════════════════════════

// Template is the full curriculum definition for one (program, track) pair.
type Template struct {
	// ProgramCode - registry code of the specialization program.
	ProgramCode string

	// ProgramName - display name, e.g. "Kardiologia".
	ProgramName string

	// Track - which numbering scheme this template belongs to.
	Track Track

	// Version - registry version marker, e.g. "CMKP 2023".
	Version string

	// DurationYears - nominal program duration in whole years.
	DurationYears int

	// Modules - ordered module definitions. Order is meaningful: legacy-track
	// procedure matching resolves name collisions to the first module here.
	Modules []ModuleTemplate
}

// FindModule returns the module template with the given ID, or nil.
func (t *Template) FindModule(moduleID string) *ModuleTemplate {
	for i := range t.Modules {
		if t.Modules[i].ModuleID == moduleID {
			return &t.Modules[i]
		}
	}
	return nil
}

// FindCourse returns the course template with the given ID and its owning
// module, searching all modules in order.
func (t *Template) FindCourse(courseID string) (*CourseTemplate, *ModuleTemplate) {
	for i := range t.Modules {
		if c := t.Modules[i].FindCourse(courseID); c != nil {
			return c, &t.Modules[i]
		}
	}
	return nil, nil
}

// FindInternship returns the internship template with the given ID and its
// owning module, searching all modules in order.
func (t *Template) FindInternship(internshipID string) (*InternshipTemplate, *ModuleTemplate) {
	for i := range t.Modules {
		if in := t.Modules[i].FindInternship(internshipID); in != nil {
			return in, &t.Modules[i]
		}
	}
	return nil, nil
}

// ModuleTemplate defines the requirements of a single module.
type ModuleTemplate struct {
	// ModuleID - stable identifier of the module within the template.
	ModuleID string

	// Name - display name, e.g. "Moduł podstawowy w zakresie chorób wewnętrznych".
	Name string

	// Kind - basic or specialist phase.
	Kind ModuleKind

	// DurationMonths - nominal module length in months.
	DurationMonths int

	// Procedures - procedure definitions with per-role required counts.
	Procedures []ProcedureTemplate

	// Courses - course definitions.
	Courses []CourseTemplate

	// Internships - internship definitions with working-day requirements.
	Internships []InternshipTemplate

	// RequiredShiftHours - total medical shift hours required by the module.
	RequiredShiftHours float64

	// WeeklyShiftHours - weekly shift-hour target. Used as a warning
	// threshold, not a hard cap.
	WeeklyShiftHours float64

	// RequiredSelfEducationDays - self-education days required by the module.
	RequiredSelfEducationDays int
}

// FindCourse returns the course template with the given ID, or nil.
func (m *ModuleTemplate) FindCourse(courseID string) *CourseTemplate {
	for i := range m.Courses {
		if m.Courses[i].ID == courseID {
			return &m.Courses[i]
		}
	}
	return nil
}

// FindInternship returns the internship template with the given ID, or nil.
func (m *ModuleTemplate) FindInternship(internshipID string) *InternshipTemplate {
	for i := range m.Internships {
		if m.Internships[i].ID == internshipID {
			return &m.Internships[i]
		}
	}
	return nil
}

// RequiredProcedures sums the required counts for the given role across all
// procedure definitions of the module.
func (m *ModuleTemplate) RequiredProcedures(role ExecutionRole) int {
	total := 0
	for i := range m.Procedures {
		total += m.Procedures[i].Required(role)
	}
	return total
}

// MandatoryCourses returns the number of mandatory courses.
func (m *ModuleTemplate) MandatoryCourses() int {
	n := 0
	for i := range m.Courses {
		if m.Courses[i].Mandatory {
			n++
		}
	}
	return n
}

// ProcedureTemplate defines one procedure requirement.
type ProcedureTemplate struct {
	// ID - stable identifier within the template.
	ID string

	// Code - registry code, e.g. "89.52". Legacy templates match on it.
	Code string

	// Name - display name. Matching is case-insensitive on it for both tracks.
	Name string

	// Type - declared procedure category. When it differs from the owning
	// module's name the validator emits an advisory type-mismatch warning.
	Type string

	// RequiredAsOperator - required count as primary operator.
	RequiredAsOperator int

	// RequiredAsAssistant - required count as assistant.
	RequiredAsAssistant int

	// InternshipID - optional owning internship reference.
	InternshipID string
}

// Required returns the required count for the given role.
func (p *ProcedureTemplate) Required(role ExecutionRole) int {
	switch role {
	case RoleOperator:
		return p.RequiredAsOperator
	case RoleAssistant:
		return p.RequiredAsAssistant
	default:
		return 0
	}
}

// MatchesName reports whether the template name equals the given name,
// ignoring case and surrounding whitespace.
func (p *ProcedureTemplate) MatchesName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// MatchesCode reports whether the template code equals the given code,
// ignoring case and surrounding whitespace.
func (p *ProcedureTemplate) MatchesCode(code string) bool {
	if p.Code == "" || code == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(p.Code), strings.TrimSpace(code))
}

// CourseTemplate defines one course requirement.
type CourseTemplate struct {
	// ID - stable identifier within the template.
	ID string

	// Name - display name.
	Name string

	// Mandatory - whether the course is compulsory for certification.
	Mandatory bool

	// DurationDays - nominal course length in days.
	DurationDays int
}

// InternshipTemplate defines one internship requirement.
type InternshipTemplate struct {
	// ID - stable identifier within the template.
	ID string

	// Name - display name, e.g. "Staż kierunkowy w oddziale intensywnej terapii".
	Name string

	// RequiredWorkingDays - minimum working days the internship must span.
	RequiredWorkingDays int
}
