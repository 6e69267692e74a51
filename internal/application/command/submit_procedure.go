// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT PROCEDURE COMMAND
// A resident logs a performed or assisted procedure. The record is persisted
// only when validation produces no blocking errors; the full ValidationResult
// is returned either way so the caller can show every finding at once.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitProcedureCommand contains the data to log a procedure.
type SubmitProcedureCommand struct {
	// ResidentID - the submitting resident. Must own the specialization.
	ResidentID string

	// SpecializationID - the specialization the record belongs to.
	SpecializationID string

	// Date - when the procedure took place.
	Date time.Time

	// Code / Name - template matching inputs.
	Code string
	Name string

	// Location - facility where the procedure was performed.
	Location string

	// Role - claimed execution role.
	Role curriculum.ExecutionRole

	// OperatorCount / AssistantCount - per-role counts (modular track).
	OperatorCount  int
	AssistantCount int

	// Year - training-year assignment, 0 = unassigned (legacy track).
	Year int

	// InternshipID - optional owning internship reference.
	InternshipID string

	// Completed - resident marks the procedure as done.
	Completed bool
}

// SubmitProcedureResult is the command outcome.
type SubmitProcedureResult struct {
	// RecordID - ID of the stored record, empty when rejected.
	RecordID string

	// Validation - the full validation result.
	Validation *validation.Result
}

// SubmitProcedureHandler handles procedure submissions.
type SubmitProcedureHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	validator  *validation.RecordValidator
}

// NewSubmitProcedureHandler creates the handler.
func NewSubmitProcedureHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	validator *validation.RecordValidator,
) *SubmitProcedureHandler {
	return &SubmitProcedureHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		validator:  validator,
	}
}

// Handle validates and stores the procedure record.
func (h *SubmitProcedureHandler) Handle(ctx context.Context, cmd SubmitProcedureCommand) (*SubmitProcedureResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	moduleID := spec.CurrentModuleID
	rec := &record.Procedure{
		Base: record.Base{
			ID:               uuid.NewString(),
			ResidentID:       cmd.ResidentID,
			SpecializationID: spec.ID,
			ModuleID:         moduleID,
			Year:             cmd.Year,
			SyncStatus:       record.SyncNotSynced,
			CreatedAt:        time.Now().UTC(),
			UpdatedAt:        time.Now().UTC(),
		},
		InternshipID:   cmd.InternshipID,
		Date:           cmd.Date,
		Code:           cmd.Code,
		Name:           cmd.Name,
		Location:       cmd.Location,
		Role:           cmd.Role,
		OperatorCount:  cmd.OperatorCount,
		AssistantCount: cmd.AssistantCount,
		Completed:      cmd.Completed,
	}

	res, err := h.validator.ValidateProcedure(ctx, rec, spec)
	if err != nil {
		return nil, err
	}

	if module := spec.ModuleByID(moduleID); module != nil {
		if !specialization.IsYearValidForModule(cmd.Year, module, spec) {
			res.AddErrorf("year", validation.CodeYearOutOfRange,
				"year %d is outside the valid range for module %q", cmd.Year, module.Name)
		}
	}

	if !res.IsValid() {
		return &SubmitProcedureResult{Validation: res}, nil
	}

	if err := h.recordRepo.SaveProcedure(ctx, rec); err != nil {
		return nil, err
	}
	return &SubmitProcedureResult{RecordID: rec.ID, Validation: res}, nil
}
