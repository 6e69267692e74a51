package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT INTERNSHIP COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SubmitInternshipCommand contains the data to log an internship stay.
type SubmitInternshipCommand struct {
	ResidentID       string
	SpecializationID string

	// InternshipTemplateID - the template requirement being fulfilled.
	InternshipTemplateID string

	// InstitutionName / DepartmentName - where the stay took place.
	InstitutionName string
	DepartmentName  string

	// StartDate / EndDate - inclusive stay dates.
	StartDate time.Time
	EndDate   time.Time

	// Year - training-year assignment, 0 = unassigned (legacy track).
	Year int

	// Completed - resident marks the stay as finished.
	Completed bool
}

// SubmitInternshipResult is the command outcome.
type SubmitInternshipResult struct {
	RecordID   string
	Validation *validation.Result
}

// SubmitInternshipHandler handles internship submissions.
type SubmitInternshipHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	validator  *validation.RecordValidator
}

// NewSubmitInternshipHandler creates the handler.
func NewSubmitInternshipHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	validator *validation.RecordValidator,
) *SubmitInternshipHandler {
	return &SubmitInternshipHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		validator:  validator,
	}
}

// Handle validates and stores the internship record.
func (h *SubmitInternshipHandler) Handle(ctx context.Context, cmd SubmitInternshipCommand) (*SubmitInternshipResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	rec := &record.Internship{
		Base: record.Base{
			ID:               uuid.NewString(),
			ResidentID:       cmd.ResidentID,
			SpecializationID: spec.ID,
			ModuleID:         spec.CurrentModuleID,
			Year:             cmd.Year,
			SyncStatus:       record.SyncNotSynced,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		},
		InternshipTemplateID: cmd.InternshipTemplateID,
		InstitutionName:      cmd.InstitutionName,
		DepartmentName:       cmd.DepartmentName,
		Range:                shared.DateRange{Start: cmd.StartDate, End: cmd.EndDate},
		Completed:            cmd.Completed,
	}

	res, err := h.validator.ValidateInternship(ctx, rec, spec)
	if err != nil {
		return nil, err
	}
	if !res.IsValid() {
		return &SubmitInternshipResult{Validation: res}, nil
	}

	if err := h.recordRepo.SaveInternship(ctx, rec); err != nil {
		return nil, err
	}
	return &SubmitInternshipResult{RecordID: rec.ID, Validation: res}, nil
}
