package query

import (
	"context"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALIDATE MODULE REQUIREMENTS QUERY
// Read-only dry run of the completion checklist. Returns a (valid, message)
// pair with every unmet precondition in one message, so the resident sees
// the complete list rather than the first failure.
// ══════════════════════════════════════════════════════════════════════════════

// ValidateModuleRequirementsQuery identifies the module.
type ValidateModuleRequirementsQuery struct {
	SpecializationID string
	ModuleID         string
}

// ModuleRequirementsDTO is the query result.
type ModuleRequirementsDTO struct {
	IsValid  bool   `json:"is_valid"`
	Message  string `json:"message,omitempty"`
	Warnings int    `json:"warnings"`
}

// ValidateModuleRequirementsHandler runs the dry-run checklist.
type ValidateModuleRequirementsHandler struct {
	specRepo    specialization.Repository
	recordRepo  record.Repository
	store       curriculum.TemplateStore
	calc        *progress.Calculator
	progression *validation.ProgressionValidator
}

// NewValidateModuleRequirementsHandler creates the handler.
func NewValidateModuleRequirementsHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	store curriculum.TemplateStore,
	calc *progress.Calculator,
	progression *validation.ProgressionValidator,
) *ValidateModuleRequirementsHandler {
	return &ValidateModuleRequirementsHandler{
		specRepo:    specRepo,
		recordRepo:  recordRepo,
		store:       store,
		calc:        calc,
		progression: progression,
	}
}

// Handle executes the query.
func (h *ValidateModuleRequirementsHandler) Handle(ctx context.Context, q ValidateModuleRequirementsQuery) (*ModuleRequirementsDTO, error) {
	spec, err := h.specRepo.GetByID(ctx, q.SpecializationID)
	if err != nil {
		return nil, err
	}
	module := spec.ModuleByID(q.ModuleID)
	if module == nil {
		return nil, shared.ErrModuleNotFound
	}

	var moduleTpl *curriculum.ModuleTemplate
	tpl, err := h.store.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	switch {
	case err == nil:
		moduleTpl = tpl.FindModule(module.TemplateModuleID)
	case shared.IsNotFound(err):
	default:
		return nil, err
	}

	snap, err := h.recordRepo.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return nil, err
	}
	h.calc.RecountModuleCounters(module, moduleTpl, snap)

	res := h.progression.CanCompleteModule(module, moduleTpl)
	return &ModuleRequirementsDTO{
		IsValid:  res.IsValid(),
		Message:  res.Summary(),
		Warnings: len(res.Warnings),
	}, nil
}
