package command

import (
	"context"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE MODULE COMMAND
// Marks the active module Completed after the full checklist passes, then
// activates the next unstarted module when one exists. Counters are
// recounted and the completion check runs against the same record snapshot,
// so the module cannot appear completable under stale counts.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteModuleCommand identifies the module to complete.
type CompleteModuleCommand struct {
	ResidentID       string
	SpecializationID string
	ModuleID         string
}

// CompleteModuleResult is the command outcome.
type CompleteModuleResult struct {
	// Completed - whether the module was marked completed.
	Completed bool

	// NextModuleID - the module activated afterwards, empty when none.
	NextModuleID string

	// Validation - the full completion checklist.
	Validation *validation.Result
}

// CompleteModuleHandler handles module completion.
type CompleteModuleHandler struct {
	specRepo    specialization.Repository
	recordRepo  record.Repository
	store       curriculum.TemplateStore
	calc        *progress.Calculator
	progression *validation.ProgressionValidator
}

// NewCompleteModuleHandler creates the handler.
func NewCompleteModuleHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	store curriculum.TemplateStore,
	calc *progress.Calculator,
	progression *validation.ProgressionValidator,
) *CompleteModuleHandler {
	return &CompleteModuleHandler{
		specRepo:    specRepo,
		recordRepo:  recordRepo,
		store:       store,
		calc:        calc,
		progression: progression,
	}
}

// Handle recounts, validates, and completes the module.
func (h *CompleteModuleHandler) Handle(ctx context.Context, cmd CompleteModuleCommand) (*CompleteModuleResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	module := spec.ModuleByID(cmd.ModuleID)
	if module == nil {
		return nil, shared.ErrModuleNotFound
	}

	var moduleTpl *curriculum.ModuleTemplate
	tpl, err := h.store.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	switch {
	case err == nil:
		moduleTpl = tpl.FindModule(module.TemplateModuleID)
	case shared.IsNotFound(err):
		// Legacy enrollments may have no published template; the counters'
		// own required fields stand in.
	default:
		return nil, err
	}

	snap, err := h.recordRepo.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return nil, err
	}
	h.calc.RecountModuleCounters(module, moduleTpl, snap)

	res := h.progression.CanCompleteModule(module, moduleTpl)
	if !res.IsValid() {
		return &CompleteModuleResult{Validation: res}, nil
	}

	if err := module.Complete(); err != nil {
		return nil, err
	}
	module.UpdatedAt = time.Now().UTC()

	nextID := ""
	if next := spec.NextNotStarted(module.ID); next != nil {
		if err := next.Activate(); err != nil {
			return nil, err
		}
		spec.CurrentModuleID = next.ID
		nextID = next.ID
	} else if spec.CurrentModuleID == module.ID {
		spec.CurrentModuleID = ""
	}
	spec.UpdatedAt = time.Now().UTC()

	if err := h.specRepo.Update(ctx, spec); err != nil {
		return nil, err
	}
	return &CompleteModuleResult{Completed: true, NextModuleID: nextID, Validation: res}, nil
}
