package validation

import (
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/progress"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// MODULE PROGRESSION VALIDATOR
// Governs the NotStarted → Active → Completed state machine. Every unmet
// precondition is reported individually so a caller can present the complete
// checklist in one pass.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// switchWarningPercent - switching away above this progress warns about
	// discarding significant in-progress standing.
	switchWarningPercent = 25.0

	// completionThresholdPercent - overall progress gate for completing a
	// module, a rounding-tolerance check on top of the counters.
	completionThresholdPercent = 95.0

	// endDateWarningDays - completing within this many days of the module
	// end date produces an advisory warning.
	endDateWarningDays = 30
)

// ProgressionValidator validates module transitions.
type ProgressionValidator struct {
	calc *progress.Calculator
	now  func() time.Time
}

// NewProgressionValidator creates a progression validator.
func NewProgressionValidator(calc *progress.Calculator) *ProgressionValidator {
	return &ProgressionValidator{calc: calc, now: time.Now}
}

// WithClock overrides the time source. For tests.
func (v *ProgressionValidator) WithClock(now func() time.Time) *ProgressionValidator {
	v.now = now
	return v
}

// CanSwitchModule checks whether the resident may make targetModuleID the
// active module. tpl may be nil when no template is published; the
// track-consistency check and the progress warning are skipped then.
func (v *ProgressionValidator) CanSwitchModule(s *specialization.Specialization, tpl *curriculum.Template, targetModuleID string) *Result {
	res := NewResult()
	now := v.now()

	target := s.ModuleByID(targetModuleID)
	if target == nil {
		res.AddErrorf("module", CodeModuleNotFound,
			"module %s does not belong to this specialization", targetModuleID)
		return res
	}

	current := s.ActiveModule()
	if current != nil && current.IsCompleted() {
		res.AddErrorf("module", CodeModuleCompleted,
			"active module %q is completed; advance normally instead of switching", current.Name)
	}

	if target.IsCompleted() {
		res.AddErrorf("module", CodeModuleCompleted,
			"module %q is already completed", target.Name)
	}

	if now.Before(target.StartDate) {
		res.AddErrorf("module", CodeModuleNotStarted,
			"module %q has not started yet (starts %s)", target.Name, target.StartDate.Format("2006-01-02"))
	}
	if now.After(target.EndDate) {
		res.AddErrorf("module", CodeModuleExpired,
			"module %q validity window expired on %s", target.Name, target.EndDate.Format("2006-01-02"))
	}

	if current != nil && current.ID != target.ID && current.Kind != target.Kind {
		res.AddErrorf("module", CodeModuleTypeMismatch,
			"cannot switch from a %s module to a %s module", current.Kind, target.Kind)
	}

	if tpl != nil {
		if tpl.Track != s.Track || tpl.FindModule(target.TemplateModuleID) == nil {
			res.AddErrorf("module", CodeTrackMismatch,
				"module %q is not part of the %s-track curriculum", target.Name, s.Track)
		}
	}

	if current != nil && current.ID != target.ID {
		var mt *curriculum.ModuleTemplate
		if tpl != nil {
			mt = tpl.FindModule(current.TemplateModuleID)
		}
		overall := v.calc.CalculateModuleProgress(current, mt).OverallPercent
		if overall.Float64() > switchWarningPercent {
			res.AddWarningf("module", CodeProgressDiscard,
				"active module is %.2f%% complete; switching will discard significant in-progress standing",
				overall.Float64())
		}
	}

	return res
}

// CanCompleteModule checks the full completion checklist for a module. Each
// shortfall is a distinct blocking error naming the gap exactly.
func (v *ProgressionValidator) CanCompleteModule(m *specialization.Module, mt *curriculum.ModuleTemplate) *Result {
	res := NewResult()
	now := v.now()

	mp := v.calc.CalculateModuleProgress(m, mt)

	checkShortfall(res, "internships", mp.CompletedInternships, mp.RequiredInternships)
	checkShortfall(res, "courses", mp.CompletedCourses, mp.RequiredCourses)
	checkShortfall(res, "procedures_operator", mp.CompletedProceduresOperator, mp.RequiredProceduresOperator)
	checkShortfall(res, "procedures_assistant", mp.CompletedProceduresAssistant, mp.RequiredProceduresAssistant)
	checkShortfallFloat(res, "shift_hours", mp.CompletedShiftHours, mp.RequiredShiftHours)
	checkShortfall(res, "self_education_days", mp.CompletedSelfEducationDays, mp.RequiredSelfEducationDays)

	if m.HasExpired(now) {
		res.AddErrorf("end_date", CodeEndDatePassed,
			"module end date %s has passed; expired modules cannot be completed",
			m.EndDate.Format("2006-01-02"))
	} else if m.DaysUntilEnd(now) <= endDateWarningDays {
		res.AddWarningf("end_date", CodeEndDateApproaching,
			"module end date %s is within %d days", m.EndDate.Format("2006-01-02"), endDateWarningDays)
	}

	if mp.OverallPercent.Float64() < completionThresholdPercent {
		res.AddErrorf("progress", CodeBelowThreshold,
			"overall progress %.2f%% is below the %.0f%% completion threshold",
			mp.OverallPercent.Float64(), completionThresholdPercent)
	}

	return res
}

func checkShortfall(res *Result, field string, completed, required int) {
	if completed < required {
		res.AddErrorf(field, CodeShortfall,
			"%s shortfall: %d more required (%d of %d)", field, required-completed, completed, required)
	}
}

func checkShortfallFloat(res *Result, field string, completed, required float64) {
	if completed < required {
		res.AddErrorf(field, CodeShortfall,
			"%s shortfall: %.1f more required (%.1f of %.1f)", field, required-completed, completed, required)
	}
}
