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
// SUBMIT COURSE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// SubmitCourseCommand contains the data to log a completed course.
type SubmitCourseCommand struct {
	ResidentID       string
	SpecializationID string

	// CourseTemplateID - the template requirement being fulfilled.
	CourseTemplateID string

	// Name - course name as entered by the resident.
	Name string

	// CompletionDate - when the certificate was issued.
	CompletionDate time.Time

	// CertificateNumber - optional certificate reference.
	CertificateNumber string

	// Year - training-year assignment, 0 = unassigned (legacy track).
	Year int
}

// SubmitCourseResult is the command outcome.
type SubmitCourseResult struct {
	RecordID   string
	Validation *validation.Result
}

// SubmitCourseHandler handles course submissions.
type SubmitCourseHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	validator  *validation.RecordValidator
}

// NewSubmitCourseHandler creates the handler.
func NewSubmitCourseHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	validator *validation.RecordValidator,
) *SubmitCourseHandler {
	return &SubmitCourseHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		validator:  validator,
	}
}

// Handle validates and stores the course record.
func (h *SubmitCourseHandler) Handle(ctx context.Context, cmd SubmitCourseCommand) (*SubmitCourseResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	rec := &record.Course{
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
		CourseTemplateID:  cmd.CourseTemplateID,
		Name:              cmd.Name,
		CompletionDate:    cmd.CompletionDate,
		CertificateNumber: cmd.CertificateNumber,
	}

	res, err := h.validator.ValidateCourse(ctx, rec, spec)
	if err != nil {
		return nil, err
	}
	if !res.IsValid() {
		return &SubmitCourseResult{Validation: res}, nil
	}

	if err := h.recordRepo.SaveCourse(ctx, rec); err != nil {
		return nil, err
	}
	return &SubmitCourseResult{RecordID: rec.ID, Validation: res}, nil
}
