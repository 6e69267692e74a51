package record

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence. The core consumes a
// consistent, already-isolated snapshot of records; serialization of
// concurrent submissions is the storage layer's concern.
// ══════════════════════════════════════════════════════════════════════════════

// Filter narrows record listings. Zero values mean "no constraint".
type Filter struct {
	// SpecializationID - scope to one specialization.
	SpecializationID string

	// ModuleID - scope to one module.
	ModuleID string

	// InternshipID - scope procedures to one internship.
	InternshipID string

	// Year - scope to one training year (legacy track).
	Year int

	// ApprovedOnly - only externally approved records.
	ApprovedOnly bool
}

// Repository provides access to all record variants.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Procedures
	// ─────────────────────────────────────────────────────────────────────────

	// SaveProcedure inserts or updates a procedure record.
	SaveProcedure(ctx context.Context, p *Procedure) error

	// GetProcedure returns a procedure by ID.
	// Returns shared.ErrRecordNotFound when absent.
	GetProcedure(ctx context.Context, id string) (*Procedure, error)

	// ListProcedures returns procedures matching the filter.
	ListProcedures(ctx context.Context, f Filter) ([]*Procedure, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Medical shifts
	// ─────────────────────────────────────────────────────────────────────────

	// SaveShift inserts or updates a medical shift record.
	SaveShift(ctx context.Context, s *MedicalShift) error

	// GetShift returns a shift by ID.
	GetShift(ctx context.Context, id string) (*MedicalShift, error)

	// ListShifts returns shifts matching the filter.
	ListShifts(ctx context.Context, f Filter) ([]*MedicalShift, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Internships
	// ─────────────────────────────────────────────────────────────────────────

	// SaveInternship inserts or updates an internship record.
	SaveInternship(ctx context.Context, i *Internship) error

	// GetInternship returns an internship by ID.
	GetInternship(ctx context.Context, id string) (*Internship, error)

	// ListInternships returns internships matching the filter.
	ListInternships(ctx context.Context, f Filter) ([]*Internship, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Courses
	// ─────────────────────────────────────────────────────────────────────────

	// SaveCourse inserts or updates a course record.
	SaveCourse(ctx context.Context, c *Course) error

	// GetCourse returns a course by ID.
	GetCourse(ctx context.Context, id string) (*Course, error)

	// ListCourses returns courses matching the filter.
	ListCourses(ctx context.Context, f Filter) ([]*Course, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Snapshots
	// ─────────────────────────────────────────────────────────────────────────

	// LoadSnapshot returns all records of a specialization in one consistent
	// read. Progress calculation and module-completion checks must run
	// against the same snapshot.
	LoadSnapshot(ctx context.Context, specializationID string) (*Snapshot, error)
}

// Snapshot is a consistent view of a specialization's record population.
type Snapshot struct {
	Procedures  []*Procedure
	Shifts      []*MedicalShift
	Internships []*Internship
	Courses     []*Course
}
