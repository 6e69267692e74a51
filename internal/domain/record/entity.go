// Package record contains the four submitted-record variants a resident logs
// against their specialization: procedures, medical shifts, internships, and
// courses. Records are owned by the submitting resident and are never deleted
// once approved. No external dependencies here.
package record

import (
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Type identifies the record variant.
type Type string

const (
	// TypeProcedure - a performed or assisted medical procedure.
	TypeProcedure Type = "procedure"

	// TypeMedicalShift - an on-call medical shift.
	TypeMedicalShift Type = "medical_shift"

	// TypeInternship - a clinical internship stay.
	TypeInternship Type = "internship"

	// TypeCourse - a completed training course.
	TypeCourse Type = "course"
)

// IsValid checks that the type is a known value.
func (t Type) IsValid() bool {
	switch t {
	case TypeProcedure, TypeMedicalShift, TypeInternship, TypeCourse:
		return true
	default:
		return false
	}
}

// SyncStatus tracks downstream synchronization with the national registry.
type SyncStatus string

const (
	// SyncNotSynced - never pushed downstream.
	SyncNotSynced SyncStatus = "not_synced"

	// SyncSynced - pushed and acknowledged downstream.
	SyncSynced SyncStatus = "synced"

	// SyncModified - changed locally after a successful push.
	SyncModified SyncStatus = "modified"
)

// IsValid checks that the status is a known value.
func (s SyncStatus) IsValid() bool {
	switch s {
	case SyncNotSynced, SyncSynced, SyncModified:
		return true
	default:
		return false
	}
}

// IsSynced reports whether the downstream copy is current.
func (s SyncStatus) IsSynced() bool {
	return s == SyncSynced
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMON FIELDS
// ══════════════════════════════════════════════════════════════════════════════

// Base carries the fields shared by every record variant.
type Base struct {
	// ID - record identifier (UUID).
	ID string

	// ResidentID - owning resident. Only the owner may modify the record.
	ResidentID string

	// SpecializationID - owning specialization.
	SpecializationID string

	// ModuleID - owning module reference (may be empty on the legacy track).
	ModuleID string

	// Year - training-year assignment, 0 = unassigned. Legacy track only.
	Year int

	// Approved - whether an external reviewer accepted the record.
	// Approval itself is an external concern; the core only reads it.
	Approved bool

	// SyncStatus - downstream registry synchronization state.
	SyncStatus SyncStatus

	// CreatedAt - submission timestamp.
	CreatedAt time.Time

	// UpdatedAt - last modification timestamp.
	UpdatedAt time.Time
}

// CanBeModifiedBy reports whether the given resident may mutate the record.
func (b *Base) CanBeModifiedBy(residentID string) bool {
	return residentID != "" && b.ResidentID == residentID
}

// ══════════════════════════════════════════════════════════════════════════════
// RECORD VARIANTS
// ══════════════════════════════════════════════════════════════════════════════

// Procedure is a logged medical procedure.
type Procedure struct {
	Base

	// InternshipID - optional owning internship reference.
	InternshipID string

	// Date - when the procedure took place. The engine accepts arbitrary
	// dates here; display layers may warn separately.
	Date time.Time

	// Code - registry procedure code (legacy matching input).
	Code string

	// Name - procedure name (matching input on both tracks).
	Name string

	// Location - facility where the procedure was performed.
	Location string

	// Role - execution role the resident claims for this record.
	Role curriculum.ExecutionRole

	// OperatorCount / AssistantCount - per-role counts, modular track only.
	OperatorCount  int
	AssistantCount int

	// Completed - resident marked the procedure as done.
	Completed bool
}

// CountFor returns the claimed count for the given role. On the legacy track
// the per-role counts are absent and a single record counts as one execution.
func (p *Procedure) CountFor(role curriculum.ExecutionRole) int {
	switch role {
	case curriculum.RoleOperator:
		if p.OperatorCount > 0 {
			return p.OperatorCount
		}
	case curriculum.RoleAssistant:
		if p.AssistantCount > 0 {
			return p.AssistantCount
		}
	}
	if p.Role == role {
		return 1
	}
	return 0
}

// MedicalShift is a logged on-call shift.
type MedicalShift struct {
	Base

	// Date - shift start date.
	Date time.Time

	// Hours / Minutes - shift duration components.
	Hours   int
	Minutes int

	// Location - facility where the shift took place.
	Location string
}

// TotalHours returns the shift duration in fractional hours.
func (s *MedicalShift) TotalHours() float64 {
	return float64(s.Hours) + float64(s.Minutes)/60.0
}

// Internship is a logged internship stay.
type Internship struct {
	Base

	// InternshipTemplateID - the template requirement this stay fulfills.
	InternshipTemplateID string

	// InstitutionName / DepartmentName - where the stay took place.
	InstitutionName string
	DepartmentName  string

	// Range - inclusive stay dates.
	Range shared.DateRange

	// Completed - resident marked the internship as finished.
	Completed bool
}

// DurationDays returns the inclusive day count of the stay.
func (i *Internship) DurationDays() int {
	return i.Range.Days()
}

// Course is a logged training course.
type Course struct {
	Base

	// CourseTemplateID - the template requirement this course fulfills.
	CourseTemplateID string

	// Name - course name as entered by the resident.
	Name string

	// CompletionDate - when the certificate was issued.
	CompletionDate time.Time

	// CertificateNumber - optional certificate reference.
	CertificateNumber string
}

// ══════════════════════════════════════════════════════════════════════════════
// PREDICATES
// Used for in-memory filtering of already-loaded record snapshots.
// ══════════════════════════════════════════════════════════════════════════════

// ProcedureInModule matches procedures assigned to the given module.
func ProcedureInModule(moduleID string) shared.Predicate[*Procedure] {
	return func(p *Procedure) bool { return p.ModuleID == moduleID }
}

// ProcedureApproved matches externally approved procedures.
func ProcedureApproved() shared.Predicate[*Procedure] {
	return func(p *Procedure) bool { return p.Approved }
}

// ProcedureInYear matches procedures contributing to targetYear statistics
// under the given track policy.
func ProcedureInYear(policy curriculum.TrackPolicy, targetYear int) shared.Predicate[*Procedure] {
	return func(p *Procedure) bool {
		return policy.IncludeInYearStatistics(p.Year, targetYear)
	}
}

// ShiftInModule matches shifts assigned to the given module.
func ShiftInModule(moduleID string) shared.Predicate[*MedicalShift] {
	return func(s *MedicalShift) bool { return s.ModuleID == moduleID }
}

// ShiftInYear matches shifts contributing to targetYear statistics.
func ShiftInYear(policy curriculum.TrackPolicy, targetYear int) shared.Predicate[*MedicalShift] {
	return func(s *MedicalShift) bool {
		return policy.IncludeInYearStatistics(s.Year, targetYear)
	}
}

// InternshipInModule matches internships assigned to the given module.
func InternshipInModule(moduleID string) shared.Predicate[*Internship] {
	return func(i *Internship) bool { return i.ModuleID == moduleID }
}

// InternshipCompleted matches internships the resident marked finished.
func InternshipCompleted() shared.Predicate[*Internship] {
	return func(i *Internship) bool { return i.Completed }
}

// CourseInModule matches courses assigned to the given module.
func CourseInModule(moduleID string) shared.Predicate[*Course] {
	return func(c *Course) bool { return c.ModuleID == moduleID }
}

// CourseApproved matches externally approved courses.
func CourseApproved() shared.Predicate[*Course] {
	return func(c *Course) bool { return c.Approved }
}
