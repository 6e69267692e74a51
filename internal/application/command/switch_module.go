package command

import (
	"context"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
	"github.com/rezhub/residency-progress-hub/internal/domain/validation"
)

// ══════════════════════════════════════════════════════════════════════════════
// SWITCH MODULE COMMAND
// Changes the active module after the progression validator allows it.
// The previous module returns to NotStarted; its records keep their standing.
// ══════════════════════════════════════════════════════════════════════════════

// SwitchModuleCommand identifies the transition.
type SwitchModuleCommand struct {
	ResidentID       string
	SpecializationID string
	TargetModuleID   string
}

// SwitchModuleResult is the command outcome.
type SwitchModuleResult struct {
	// Switched - whether the transition was applied.
	Switched bool

	// Validation - the full progression checklist.
	Validation *validation.Result
}

// SwitchModuleHandler handles module switches.
type SwitchModuleHandler struct {
	specRepo    specialization.Repository
	store       curriculum.TemplateStore
	progression *validation.ProgressionValidator
}

// NewSwitchModuleHandler creates the handler.
func NewSwitchModuleHandler(
	specRepo specialization.Repository,
	store curriculum.TemplateStore,
	progression *validation.ProgressionValidator,
) *SwitchModuleHandler {
	return &SwitchModuleHandler{
		specRepo:    specRepo,
		store:       store,
		progression: progression,
	}
}

// Handle validates and applies the module switch.
func (h *SwitchModuleHandler) Handle(ctx context.Context, cmd SwitchModuleCommand) (*SwitchModuleResult, error) {
	spec, err := h.specRepo.GetByID(ctx, cmd.SpecializationID)
	if err != nil {
		return nil, err
	}
	if spec.ResidentID != cmd.ResidentID {
		return nil, shared.ErrNotRecordOwner
	}

	tpl, err := h.loadTemplate(ctx, spec)
	if err != nil {
		return nil, err
	}

	res := h.progression.CanSwitchModule(spec, tpl, cmd.TargetModuleID)
	if !res.IsValid() {
		return &SwitchModuleResult{Validation: res}, nil
	}

	if err := spec.SetActiveModule(cmd.TargetModuleID); err != nil {
		return nil, err
	}
	spec.UpdatedAt = time.Now().UTC()

	if err := h.specRepo.Update(ctx, spec); err != nil {
		return nil, err
	}
	return &SwitchModuleResult{Switched: true, Validation: res}, nil
}

// loadTemplate tolerates an unpublished template (legacy enrollments); the
// progression validator skips template-dependent checks then.
func (h *SwitchModuleHandler) loadTemplate(ctx context.Context, spec *specialization.Specialization) (*curriculum.Template, error) {
	tpl, err := h.store.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return tpl, nil
}
