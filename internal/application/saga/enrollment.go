// Package saga contains multi-step business processes that orchestrate
// several domain operations and compensate on failure.
package saga

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/resident"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT SAGA
// Provisions a new resident enrollment:
// Validate → Check Existence → Fetch Template → Create Account →
// Provision Specialization → Activate First Module
// A failure after account creation deletes the account again.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentInput contains everything needed to enroll a resident.
type EnrollmentInput struct {
	// Email / Password - account credentials. The password is stored only
	// as a bcrypt hash.
	Email    string
	Password string

	// FullName / LicenseNumber - resident identity.
	FullName      string
	LicenseNumber string

	// ProgramCode / Track - which curriculum to provision from.
	ProgramCode string
	Track       curriculum.Track

	// StartDate - program start; planned end derives from the template.
	StartDate time.Time
}

// Validate checks the input before any side effect happens.
func (i EnrollmentInput) Validate() error {
	if !strings.Contains(i.Email, "@") {
		return errors.New("enrollment: valid email is required")
	}
	if len(i.Password) < 8 {
		return errors.New("enrollment: password must be at least 8 characters")
	}
	if !shared.ProgramCode(i.ProgramCode).IsValid() {
		return errors.New("enrollment: invalid program code")
	}
	if !i.Track.IsValid() {
		return errors.New("enrollment: unknown track")
	}
	if i.StartDate.IsZero() {
		return errors.New("enrollment: start date is required")
	}
	return nil
}

// EnrollmentResult is the saga outcome.
type EnrollmentResult struct {
	Resident       *resident.Resident
	Specialization *specialization.Specialization
	EnrolledAt     time.Time
}

// EnrollmentSaga orchestrates resident enrollment.
type EnrollmentSaga struct {
	residents resident.Repository
	specs     specialization.Repository
	store     curriculum.TemplateStore
}

// NewEnrollmentSaga creates the saga with all dependencies.
func NewEnrollmentSaga(
	residents resident.Repository,
	specs specialization.Repository,
	store curriculum.TemplateStore,
) *EnrollmentSaga {
	return &EnrollmentSaga{
		residents: residents,
		specs:     specs,
		store:     store,
	}
}

// Execute runs the complete enrollment process.
func (s *EnrollmentSaga) Execute(ctx context.Context, input EnrollmentInput) (*EnrollmentResult, error) {
	if err := input.Validate(); err != nil {
		return nil, shared.WrapError("saga", "Enrollment", shared.ErrValidation, "invalid input", err)
	}

	exists, err := s.residents.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrResidentAlreadyExists
	}

	tpl, err := s.store.GetTemplate(ctx, input.ProgramCode, input.Track)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("saga", "Enrollment", shared.ErrValidation, "password hashing failed", err)
	}

	now := time.Now().UTC()
	res := &resident.Resident{
		ID:            uuid.NewString(),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:  string(hash),
		FullName:      input.FullName,
		LicenseNumber: input.LicenseNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	if err := s.residents.Create(ctx, res); err != nil {
		return nil, err
	}

	spec, err := s.provisionSpecialization(res.ID, tpl, input.StartDate)
	if err != nil {
		s.compensateResident(ctx, res.ID)
		return nil, err
	}
	if err := s.specs.Create(ctx, spec); err != nil {
		s.compensateResident(ctx, res.ID)
		return nil, err
	}

	return &EnrollmentResult{
		Resident:       res,
		Specialization: spec,
		EnrolledAt:     now,
	}, nil
}

// provisionSpecialization builds the aggregate from the template: one module
// per ModuleTemplate in template order, first module activated, module
// windows laid out back to back from the start date.
func (s *EnrollmentSaga) provisionSpecialization(residentID string, tpl *curriculum.Template, start time.Time) (*specialization.Specialization, error) {
	now := time.Now().UTC()
	spec := &specialization.Specialization{
		ID:             uuid.NewString(),
		ResidentID:     residentID,
		ProgramCode:    tpl.ProgramCode,
		ProgramName:    tpl.ProgramName,
		Track:          tpl.Track,
		StartDate:      start,
		PlannedEndDate: start.AddDate(tpl.DurationYears, 0, 0),
		DurationYears:  tpl.DurationYears,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	moduleStart := start
	for i := range tpl.Modules {
		mt := &tpl.Modules[i]
		moduleEnd := moduleStart.AddDate(0, mt.DurationMonths, 0)
		m := &specialization.Module{
			ID:                          uuid.NewString(),
			SpecializationID:            spec.ID,
			TemplateModuleID:            mt.ModuleID,
			Name:                        mt.Name,
			Kind:                        mt.Kind,
			Status:                      specialization.StatusNotStarted,
			StartDate:                   moduleStart,
			EndDate:                     moduleEnd,
			TotalInternships:            len(mt.Internships),
			TotalCourses:                len(mt.Courses),
			RequiredProceduresOperator:  mt.RequiredProcedures(curriculum.RoleOperator),
			RequiredProceduresAssistant: mt.RequiredProcedures(curriculum.RoleAssistant),
			RequiredShiftHours:          mt.RequiredShiftHours,
			WeeklyShiftHours:            mt.WeeklyShiftHours,
			RequiredSelfEducationDays:   mt.RequiredSelfEducationDays,
			CreatedAt:                   now,
			UpdatedAt:                   now,
		}
		spec.Modules = append(spec.Modules, m)
		moduleStart = moduleEnd
	}

	if len(spec.Modules) > 0 {
		if err := spec.SetActiveModule(spec.Modules[0].ID); err != nil {
			return nil, err
		}
	}
	return spec, spec.Validate()
}

// compensateResident undoes account creation. Best effort: a failed delete
// leaves an orphaned account for the cleanup job rather than failing louder.
func (s *EnrollmentSaga) compensateResident(ctx context.Context, residentID string) {
	_ = s.residents.Delete(ctx, residentID)
}
