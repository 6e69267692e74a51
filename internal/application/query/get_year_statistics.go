package query

import (
	"context"

	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET YEAR STATISTICS QUERY
// Legacy-track view: record counts grouped by training year. Unassigned
// (year 0) records contribute to every concrete year requested. The modular
// track returns an empty list - years are not a concept there.
// ══════════════════════════════════════════════════════════════════════════════

// GetYearStatisticsQuery identifies the specialization.
type GetYearStatisticsQuery struct {
	SpecializationID string
}

// YearStatisticsDTO is the per-year summary.
type YearStatisticsDTO struct {
	Year             int     `json:"year"`
	ProcedureCount   int     `json:"procedure_count"`
	ShiftHours       float64 `json:"shift_hours"`
	InternshipDays   int     `json:"internship_days"`
	CompletedCourses int     `json:"completed_courses"`
}

// GetYearStatisticsHandler computes the per-year breakdown.
type GetYearStatisticsHandler struct {
	specRepo   specialization.Repository
	recordRepo record.Repository
	calc       *progress.Calculator
}

// NewGetYearStatisticsHandler creates the handler.
func NewGetYearStatisticsHandler(
	specRepo specialization.Repository,
	recordRepo record.Repository,
	calc *progress.Calculator,
) *GetYearStatisticsHandler {
	return &GetYearStatisticsHandler{
		specRepo:   specRepo,
		recordRepo: recordRepo,
		calc:       calc,
	}
}

// Handle executes the query.
func (h *GetYearStatisticsHandler) Handle(ctx context.Context, q GetYearStatisticsQuery) ([]YearStatisticsDTO, error) {
	spec, err := h.specRepo.GetByID(ctx, q.SpecializationID)
	if err != nil {
		return nil, err
	}

	snap, err := h.recordRepo.LoadSnapshot(ctx, spec.ID)
	if err != nil {
		return nil, err
	}

	stats := h.calc.CalculateYearStatistics(spec, snap)
	out := make([]YearStatisticsDTO, 0, len(stats))
	for _, st := range stats {
		out = append(out, YearStatisticsDTO{
			Year:             st.Year,
			ProcedureCount:   st.ProcedureCount,
			ShiftHours:       st.ShiftHours,
			InternshipDays:   st.InternshipDays,
			CompletedCourses: st.CompletedCourse,
		})
	}
	return out, nil
}
