package validation

import (
	"context"
	"strings"
	"time"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD VALIDATOR
// One validation function per record type. Each returns a Result; a non-nil
// Go error means validation itself could not be performed and the caller
// must treat the record as not accepted.
// ══════════════════════════════════════════════════════════════════════════════

// RecordValidator validates submitted records against curriculum rules.
type RecordValidator struct {
	store curriculum.TemplateStore
	now   func() time.Time
}

// NewRecordValidator creates a validator backed by the given template store.
func NewRecordValidator(store curriculum.TemplateStore) *RecordValidator {
	return &RecordValidator{store: store, now: time.Now}
}

// WithClock overrides the time source. For tests.
func (v *RecordValidator) WithClock(now func() time.Time) *RecordValidator {
	v.now = now
	return v
}

// loadTemplate fetches the template for the specialization. A missing
// template is a tolerated lookup failure: the result carries a warning and
// the caller stops further template-dependent rules. Store failures are
// returned as Go errors.
func (v *RecordValidator) loadTemplate(ctx context.Context, s *specialization.Specialization) (*curriculum.Template, *Result, error) {
	res := NewResult()
	tpl, err := v.store.GetTemplate(ctx, s.ProgramCode, s.Track)
	if err != nil {
		if shared.IsNotFound(err) {
			res.AddWarningf("", CodeTemplateNotFound,
				"no curriculum template published for program %s (%s track)", s.ProgramCode, s.Track)
			return nil, res, nil
		}
		return nil, nil, shared.WrapError("validation", "loadTemplate", shared.ErrExternalService,
			"validation could not be performed", err)
	}
	return tpl, res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Procedures
// ─────────────────────────────────────────────────────────────────────────────

// ValidateProcedure validates a procedure record against the curriculum.
func (v *RecordValidator) ValidateProcedure(ctx context.Context, rec *record.Procedure, s *specialization.Specialization) (*Result, error) {
	tpl, res, err := v.loadTemplate(ctx, s)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return res, nil
	}

	policy := curriculum.PolicyFor(s.Track)

	active := s.ActiveModule()
	if policy.RequiresActiveModule() && active == nil {
		res.AddError("module", CodeNoActiveModule,
			"procedure submission requires an active module on the modular track")
		return res, nil
	}

	activeTemplateID := ""
	if active != nil {
		activeTemplateID = active.TemplateModuleID
	}

	match := policy.MatchProcedure(tpl, activeTemplateID, rec.Code, rec.Name)
	if match == nil {
		switch policy.OnMiss() {
		case curriculum.MissBlocks:
			res.AddErrorf("name", CodeProcedureNotInModule,
				"procedure %q is not defined in the active module", rec.Name)
		case curriculum.MissWarns:
			res.AddWarningf("name", CodeProcedureUnknown,
				"procedure %q not found in the official template; counted as locally defined", rec.Name)
		}
	} else {
		// Modular track only: the legacy contract searches every module, so a
		// match outside the active module is legitimate there.
		if policy.RequiresActiveModule() && active != nil && match.Module.ModuleID != active.TemplateModuleID {
			res.AddErrorf("module", CodeModuleMismatch,
				"procedure belongs to module %q but the active module is %q",
				match.Module.Name, active.Name)
		}
		if match.Procedure.Required(rec.Role) == 0 {
			res.AddErrorf("role", CodeRoleNotRequired,
				"role %s has no required count on procedure %q", rec.Role, match.Procedure.Name)
		}
		if match.Procedure.Type != "" && !strings.EqualFold(match.Procedure.Type, match.Module.Name) {
			res.AddWarningf("type", CodeTypeMismatch,
				"declared type %q differs from owning module %q", match.Procedure.Type, match.Module.Name)
		}
	}

	v.commonChecks(res, rec.Location, rec.Completed, rec.SyncStatus)

	// Arbitrary dates are accepted for procedures; display layers may warn.
	return res, nil
}

// commonChecks applies the track-independent rules shared across record
// types. Record types without a completed flag pass false.
func (v *RecordValidator) commonChecks(res *Result, location string, completed bool, sync record.SyncStatus) {
	if strings.TrimSpace(location) == "" {
		res.AddError("location", CodeLocationRequired, "location is required")
	}
	if completed && !sync.IsSynced() {
		res.AddWarning("sync", CodeUnsyncedCompleted,
			"record is completed but not yet synchronized with the registry")
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Medical shifts
// ─────────────────────────────────────────────────────────────────────────────

// ValidateMedicalShift validates a medical shift record. The weekly-hour
// target produces an advisory warning only; summing other shifts in the week
// is the progress calculator's aggregate concern, not this validator's.
func (v *RecordValidator) ValidateMedicalShift(ctx context.Context, rec *record.MedicalShift, s *specialization.Specialization) (*Result, error) {
	tpl, res, err := v.loadTemplate(ctx, s)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return res, nil
	}

	if rec.TotalHours() <= 0 {
		res.AddError("duration", CodeZeroDuration, "shift duration must be greater than zero")
	}

	// The reminder is unconditional for any module with a target: this
	// validator sees one shift at a time and cannot sum the week itself.
	if mt := v.shiftModuleTemplate(tpl, rec, s); mt != nil && mt.WeeklyShiftHours > 0 {
		res.AddWarningf("duration", CodeWeeklyHoursTarget,
			"weekly shift totals should not exceed the %.1fh module target", mt.WeeklyShiftHours)
	}

	v.commonChecks(res, rec.Location, false, rec.SyncStatus)

	return res, nil
}

// shiftModuleTemplate locates the module template whose shift-hour target
// applies: the record's module when set, else the active module.
func (v *RecordValidator) shiftModuleTemplate(tpl *curriculum.Template, rec *record.MedicalShift, s *specialization.Specialization) *curriculum.ModuleTemplate {
	m := s.ModuleByID(rec.ModuleID)
	if m == nil {
		m = s.ActiveModule()
	}
	if m == nil {
		return nil
	}
	return tpl.FindModule(m.TemplateModuleID)
}

// ─────────────────────────────────────────────────────────────────────────────
// Internships
// ─────────────────────────────────────────────────────────────────────────────

// ValidateInternship validates an internship record. Duration against the
// template requirement applies only when the template resolves; the date
// ordering and future-completion rules apply independently.
func (v *RecordValidator) ValidateInternship(ctx context.Context, rec *record.Internship, s *specialization.Specialization) (*Result, error) {
	res := NewResult()

	tpl, err := v.store.GetInternshipTemplate(ctx, s.ProgramCode, s.Track, rec.InternshipTemplateID)
	switch {
	case err == nil:
		actualDays := rec.DurationDays()
		if actualDays < tpl.RequiredWorkingDays {
			res.AddErrorf("dates", CodeDurationShortfall,
				"internship spans %d days but the template requires %d working days",
				actualDays, tpl.RequiredWorkingDays)
		}
	case shared.IsNotFound(err):
		res.AddWarningf("internship", CodeTemplateNotFound,
			"no internship template %s in the curriculum", rec.InternshipTemplateID)
	default:
		return nil, shared.WrapError("validation", "ValidateInternship", shared.ErrExternalService,
			"validation could not be performed", err)
	}

	if rec.Range.Start.After(rec.Range.End) {
		res.AddError("dates", CodeDateOrder, "start date must not be after end date")
	}

	if rec.Completed && rec.Range.Start.After(v.now()) {
		res.AddError("completed", CodeFutureCompletion,
			"an internship dated entirely in the future cannot be marked completed")
	}

	return res, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Courses
// ─────────────────────────────────────────────────────────────────────────────

// ValidateCourse validates a course record.
func (v *RecordValidator) ValidateCourse(ctx context.Context, rec *record.Course, s *specialization.Specialization) (*Result, error) {
	res := NewResult()

	tpl, err := v.store.GetCourseTemplate(ctx, s.ProgramCode, s.Track, rec.CourseTemplateID)
	switch {
	case err == nil:
		if tpl.Mandatory && !rec.Approved {
			res.AddWarningf("approval", CodeMandatoryUnapproved,
				"mandatory course %q is awaiting approval", tpl.Name)
		}
	case shared.IsNotFound(err):
		res.AddWarningf("course", CodeTemplateNotFound,
			"no course template %s in the curriculum", rec.CourseTemplateID)
	default:
		return nil, shared.WrapError("validation", "ValidateCourse", shared.ErrExternalService,
			"validation could not be performed", err)
	}

	if rec.CompletionDate.After(v.now()) {
		res.AddError("completion_date", CodeFutureDate, "completion date must not be in the future")
	}

	return res, nil
}
