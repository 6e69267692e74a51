package query

import (
	"context"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET OVERALL PROGRESS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetOverallProgressQuery identifies the scope. ModuleID is optional: when
// empty, counts aggregate across all modules of the specialization.
type GetOverallProgressQuery struct {
	SpecializationID string
	ModuleID         string
}

// OverallProgressDTO is the query result.
type OverallProgressDTO struct {
	SpecializationID string  `json:"specialization_id"`
	ModuleID         string  `json:"module_id,omitempty"`
	Overall          float64 `json:"overall_percent"`
}

// GetOverallProgressHandler computes specialization-scope progress.
type GetOverallProgressHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	store      curriculum.TemplateStore
	calc       *progress.Calculator
}

// NewGetOverallProgressHandler creates the handler.
func NewGetOverallProgressHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	store curriculum.TemplateStore,
	calc *progress.Calculator,
) *GetOverallProgressHandler {
	return &GetOverallProgressHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		store:      store,
		calc:       calc,
	}
}

// Handle executes the query.
func (h *GetOverallProgressHandler) Handle(ctx context.Context, q GetOverallProgressQuery) (*OverallProgressDTO, error) {
	spec, err := h.specRepo.GetByID(ctx, q.SpecializationID)
	if err != nil {
		return nil, err
	}

	var tpl *curriculum.Template
	tpl, err = h.store.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		tpl = nil
	}

	snap, err := h.recordRepo.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return nil, err
	}
	h.calc.RecountAll(spec, tpl, snap)

	overall := h.calc.CalculateOverallProgress(spec, tpl, q.ModuleID)
	return &OverallProgressDTO{
		SpecializationID: spec.ID,
		ModuleID:         q.ModuleID,
		Overall:          overall.Float64(),
	}, nil
}
