// Package query contains read operations (CQRS - Queries).
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
// GET MODULE PROGRESS QUERY
// Pull-based: counters are recounted from the current record population on
// every request. Nothing is persisted here - the cached counters are written
// back by the maintenance job, not by reads.
// ══════════════════════════════════════════════════════════════════════════════

// GetModuleProgressQuery identifies the module.
type GetModuleProgressQuery struct {
	SpecializationID string
	ModuleID         string
}

// ModuleProgressDTO exposes the derived snapshot to callers.
type ModuleProgressDTO struct {
	ModuleID   string  `json:"module_id"`
	ModuleName string  `json:"module_name"`
	Overall    float64 `json:"overall_percent"`

	Internships struct {
		Completed int     `json:"completed"`
		Required  int     `json:"required"`
		Percent   float64 `json:"percent"`
	} `json:"internships"`

	Courses struct {
		Completed int     `json:"completed"`
		Required  int     `json:"required"`
		Percent   float64 `json:"percent"`
	} `json:"courses"`

	Procedures struct {
		CompletedOperator  int     `json:"completed_operator"`
		RequiredOperator   int     `json:"required_operator"`
		CompletedAssistant int     `json:"completed_assistant"`
		RequiredAssistant  int     `json:"required_assistant"`
		Percent            float64 `json:"percent"`
	} `json:"procedures"`

	ShiftHours struct {
		Completed float64 `json:"completed"`
		Required  float64 `json:"required"`
		Percent   float64 `json:"percent"`
	} `json:"shift_hours"`
}

// GetModuleProgressHandler computes per-module progress.
type GetModuleProgressHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	store      curriculum.TemplateStore
	calc       *progress.Calculator
}

// NewGetModuleProgressHandler creates the handler.
func NewGetModuleProgressHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	store curriculum.TemplateStore,
	calc *progress.Calculator,
) *GetModuleProgressHandler {
	return &GetModuleProgressHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		store:      store,
		calc:       calc,
	}
}

// Handle executes the query.
func (h *GetModuleProgressHandler) Handle(ctx context.Context, q GetModuleProgressQuery) (*ModuleProgressDTO, error) {
	spec, err := h.specRepo.GetByID(ctx, q.SpecializationID)
	if err != nil {
		return nil, err
	}
	module := spec.ModuleByID(q.ModuleID)
	if module == nil {
		return nil, shared.ErrModuleNotFound
	}

	moduleTpl, err := h.moduleTemplate(ctx, spec, module)
	if err != nil {
		return nil, err
	}

	snap, err := h.recordRepo.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return nil, err
	}
	h.calc.RecountModuleCounters(module, moduleTpl, snap)
	mp := h.calc.CalculateModuleProgress(module, moduleTpl)

	return toDTO(module.Name, mp), nil
}

func (h *GetModuleProgressHandler) moduleTemplate(ctx context.Context, spec *specialization.Specialization, m *specialization.Module) (*curriculum.ModuleTemplate, error) {
	tpl, err := h.store.GetTemplate(ctx, spec.ProgramCode, spec.Track)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return tpl.FindModule(m.TemplateModuleID), nil
}

func toDTO(name string, mp *progress.ModuleProgress) *ModuleProgressDTO {
	dto := &ModuleProgressDTO{
		ModuleID:   mp.ModuleID,
		ModuleName: name,
		Overall:    mp.OverallPercent.Float64(),
	}
	dto.Internships.Completed = mp.CompletedInternships
	dto.Internships.Required = mp.RequiredInternships
	dto.Internships.Percent = mp.InternshipPercent.Float64()
	dto.Courses.Completed = mp.CompletedCourses
	dto.Courses.Required = mp.RequiredCourses
	dto.Courses.Percent = mp.CoursePercent.Float64()
	dto.Procedures.CompletedOperator = mp.CompletedProceduresOperator
	dto.Procedures.RequiredOperator = mp.RequiredProceduresOperator
	dto.Procedures.CompletedAssistant = mp.CompletedProceduresAssistant
	dto.Procedures.RequiredAssistant = mp.RequiredProceduresAssistant
	dto.Procedures.Percent = mp.ProcedurePercent.Float64()
	dto.ShiftHours.Completed = mp.CompletedShiftHours
	dto.ShiftHours.Required = mp.RequiredShiftHours
	dto.ShiftHours.Percent = mp.ShiftPercent.Float64()
	return dto
}
