// Package specialization contains the specialization aggregate: the
// enrollment of one resident into one program, its modules, their lifecycle,
// and the legacy-track training-year semantics. No external dependencies here.
package specialization

import (
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODULE STATUS
// Lifecycle: NotStarted → Active → Completed. Completed is terminal.
// At most one module of a specialization is Active at a time.
// ══════════════════════════════════════════════════════════════════════════════

// ModuleStatus is the lifecycle state of a module.
type ModuleStatus string

const (
	// StatusNotStarted - the module has not been activated yet.
	StatusNotStarted ModuleStatus = "not_started"

	// StatusActive - the resident is currently working through the module.
	StatusActive ModuleStatus = "active"

	// StatusCompleted - the module is finished. Terminal and irreversible.
	StatusCompleted ModuleStatus = "completed"
)

// IsValid checks that the status is a known value.
func (s ModuleStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle permits the change.
func (s ModuleStatus) CanTransitionTo(target ModuleStatus) bool {
	switch s {
	case StatusNotStarted:
		return target == StatusActive
	case StatusActive:
		return target == StatusCompleted || target == StatusNotStarted
	case StatusCompleted:
		return false
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MODULE
// ══════════════════════════════════════════════════════════════════════════════

// Module is one bounded phase of a specialization. Its counters are a cache
// of the record population: they are recomputed before use, never treated as
// the source of truth.
type Module struct {
	// ID - module identifier (UUID).
	ID string

	// SpecializationID - owning specialization.
	SpecializationID string

	// TemplateModuleID - the ModuleTemplate this module was provisioned from.
	TemplateModuleID string

	// Name - display name copied from the template.
	Name string

	// Kind - basic or specialist phase.
	Kind curriculum.ModuleKind

	// Status - lifecycle state.
	Status ModuleStatus

	// StartDate / EndDate - validity window of the module.
	StartDate time.Time
	EndDate   time.Time

	// ─────────────────────────────────────────────────────────────────────────
	// Cached completion counters (recomputed from records before use)
	// ─────────────────────────────────────────────────────────────────────────

	CompletedInternships int
	TotalInternships     int

	CompletedCourses int
	TotalCourses     int

	CompletedProceduresOperator  int
	RequiredProceduresOperator   int
	CompletedProceduresAssistant int
	RequiredProceduresAssistant  int

	CompletedShiftHours float64
	RequiredShiftHours  float64

	// WeeklyShiftHours - advisory weekly target copied from the template.
	WeeklyShiftHours float64

	CompletedSelfEducationDays int
	RequiredSelfEducationDays  int

	// CreatedAt / UpdatedAt - entity timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the module is the one currently worked on.
func (m *Module) IsActive() bool {
	return m.Status == StatusActive
}

// IsCompleted reports whether the module is finished.
func (m *Module) IsCompleted() bool {
	return m.Status == StatusCompleted
}

// Window returns the validity window as a date range.
func (m *Module) Window() shared.DateRange {
	return shared.DateRange{Start: m.StartDate, End: m.EndDate}
}

// InWindow reports whether now falls inside the validity window.
func (m *Module) InWindow(now time.Time) bool {
	return m.Window().Contains(now)
}

// HasExpired reports whether the module's end date has passed.
func (m *Module) HasExpired(now time.Time) bool {
	return now.After(m.EndDate)
}

// DaysUntilEnd returns whole days until the end date (negative once passed).
func (m *Module) DaysUntilEnd(now time.Time) int {
	return int(m.EndDate.Sub(now).Hours() / 24)
}

// Activate moves the module into the Active state.
func (m *Module) Activate() error {
	if !m.Status.CanTransitionTo(StatusActive) {
		return shared.ErrModuleTransition
	}
	m.Status = StatusActive
	return nil
}

// Deactivate returns an active module to NotStarted. Used when the resident
// switches away; in-progress standing is kept in the records, only the
// lifecycle marker moves.
func (m *Module) Deactivate() error {
	if !m.Status.CanTransitionTo(StatusNotStarted) {
		return shared.ErrModuleTransition
	}
	m.Status = StatusNotStarted
	return nil
}

// Complete moves the module into the terminal Completed state.
// Preconditions are checked by the progression validator, not here.
func (m *Module) Complete() error {
	if !m.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrModuleTransition
	}
	m.Status = StatusCompleted
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SPECIALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// Specialization is one resident's enrollment into a program.
// Track is immutable after creation.
type Specialization struct {
	// ID - specialization identifier (UUID).
	ID string

	// ResidentID - owning resident.
	ResidentID string

	// ProgramCode - registry code of the program.
	ProgramCode string

	// ProgramName - display name of the program.
	ProgramName string

	// Track - curriculum numbering scheme. Never changes after enrollment.
	Track curriculum.Track

	// StartDate / PlannedEndDate - planned program span.
	StartDate      time.Time
	PlannedEndDate time.Time

	// DurationYears - nominal program duration in whole years.
	DurationYears int

	// CurrentModuleID - the active module, empty when none is active.
	CurrentModuleID string

	// Modules - ordered module list, template order preserved.
	Modules []*Module

	// CreatedAt / UpdatedAt - entity timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveModule returns the currently active module, or nil.
func (s *Specialization) ActiveModule() *Module {
	if s.CurrentModuleID == "" {
		return nil
	}
	return s.ModuleByID(s.CurrentModuleID)
}

// ModuleByID returns the module with the given ID, or nil.
func (s *Specialization) ModuleByID(id string) *Module {
	for _, m := range s.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// HasBasicModule reports whether the program includes a basic phase.
func (s *Specialization) HasBasicModule() bool {
	for _, m := range s.Modules {
		if m.Kind == curriculum.KindBasic {
			return true
		}
	}
	return false
}

// NextNotStarted returns the first module after the given one that has not
// been started, or nil. Used to advance after completing a module.
func (s *Specialization) NextNotStarted(afterModuleID string) *Module {
	seen := afterModuleID == ""
	for _, m := range s.Modules {
		if !seen {
			seen = m.ID == afterModuleID
			continue
		}
		if m.Status == StatusNotStarted {
			return m
		}
	}
	return nil
}

// SetActiveModule activates the target module and deactivates the previous
// one, keeping the single-active-module invariant.
func (s *Specialization) SetActiveModule(targetID string) error {
	target := s.ModuleByID(targetID)
	if target == nil {
		return shared.ErrModuleNotFound
	}
	if current := s.ActiveModule(); current != nil && current.ID != targetID {
		if err := current.Deactivate(); err != nil {
			return err
		}
	}
	if target.Status != StatusActive {
		if err := target.Activate(); err != nil {
			return err
		}
	}
	s.CurrentModuleID = targetID
	return nil
}

// Validate checks structural invariants of the aggregate.
func (s *Specialization) Validate() error {
	if s.ID == "" || s.ResidentID == "" {
		return shared.NewDomainError("specialization", "Validate", shared.ErrInvalidID, "missing identifier")
	}
	if !s.Track.IsValid() {
		return shared.NewDomainError("specialization", "Validate", shared.ErrInvalidInput, "unknown track")
	}
	if shared.ProgramCode(s.ProgramCode) == "" {
		return shared.NewDomainError("specialization", "Validate", shared.ErrEmptyValue, "program code is required")
	}
	active := 0
	for _, m := range s.Modules {
		if m.IsActive() {
			active++
		}
	}
	if active > 1 {
		return shared.NewDomainError("specialization", "Validate", shared.ErrInvalidState, "more than one active module")
	}
	if s.CurrentModuleID != "" && s.ModuleByID(s.CurrentModuleID) == nil {
		return shared.NewDomainError("specialization", "Validate", shared.ErrInvalidState, "current module not part of specialization")
	}
	return nil
}
