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
// SUBMIT MEDICAL SHIFT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SubmitMedicalShiftCommand contains the data to log an on-call shift.
type SubmitMedicalShiftCommand struct {
	ResidentID       string
	SpecializationID string

	// Date - shift start date.
	Date time.Time

	// Hours / Minutes - shift duration components.
	Hours   int
	Minutes int

	// Location - facility where the shift took place.
	Location string

	// Year - training-year assignment, 0 = unassigned (legacy track).
	Year int
}

// SubmitMedicalShiftResult is the command outcome.
type SubmitMedicalShiftResult struct {
	RecordID   string
	Validation *validation.Result
}

// SubmitMedicalShiftHandler handles shift submissions.
type SubmitMedicalShiftHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	validator  *validation.RecordValidator
}

// NewSubmitMedicalShiftHandler creates the handler.
func NewSubmitMedicalShiftHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	validator *validation.RecordValidator,
) *SubmitMedicalShiftHandler {
	return &SubmitMedicalShiftHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		validator:  validator,
	}
}

// Handle validates and stores the shift record.
func (h *SubmitMedicalShiftHandler) Handle(ctx context.Context, cmd SubmitMedicalShiftCommand) (*SubmitMedicalShiftResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	rec := &record.MedicalShift{
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
		Date:     cmd.Date,
		Hours:    cmd.Hours,
		Minutes:  cmd.Minutes,
		Location: cmd.Location,
	}

	res, err := h.validator.ValidateMedicalShift(ctx, rec, spec)
	if err != nil {
		return nil, err
	}
	if !res.IsValid() {
		return &SubmitMedicalShiftResult{Validation: res}, nil
	}

	if err := h.recordRepo.SaveShift(ctx, rec); err != nil {
		return nil, err
	}
	return &SubmitMedicalShiftResult{RecordID: rec.ID, Validation: res}, nil
}
