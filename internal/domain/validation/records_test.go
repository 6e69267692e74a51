package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/record"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// fakeStore serves one in-memory template and fails on demand.
type fakeStore struct {
	tpl *curriculum.Template
	err error
}

func (f *fakeStore) GetTemplate(ctx context.Context, programCode string, track curriculum.Track) (*curriculum.Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.tpl == nil || f.tpl.ProgramCode != programCode || f.tpl.Track != track {
		return nil, shared.ErrTemplateNotFound
	}
	return f.tpl, nil
}

func (f *fakeStore) GetModuleTemplate(ctx context.Context, programCode string, track curriculum.Track, moduleID string) (*curriculum.ModuleTemplate, error) {
	tpl, err := f.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	if m := tpl.FindModule(moduleID); m != nil {
		return m, nil
	}
	return nil, shared.ErrModuleTemplateNotFound
}

func (f *fakeStore) GetInternshipTemplate(ctx context.Context, programCode string, track curriculum.Track, internshipID string) (*curriculum.InternshipTemplate, error) {
	tpl, err := f.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	if in, _ := tpl.FindInternship(internshipID); in != nil {
		return in, nil
	}
	return nil, shared.ErrTemplateNotFound
}

func (f *fakeStore) GetCourseTemplate(ctx context.Context, programCode string, track curriculum.Track, courseID string) (*curriculum.CourseTemplate, error) {
	tpl, err := f.GetTemplate(ctx, programCode, track)
	if err != nil {
		return nil, err
	}
	if c, _ := tpl.FindCourse(courseID); c != nil {
		return c, nil
	}
	return nil, shared.ErrTemplateNotFound
}

func testClock() func() time.Time {
	fixed := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func modularTemplate() *curriculum.Template {
	return &curriculum.Template{
		ProgramCode: "0706",
		Track:       curriculum.TrackModular,
		Modules: []curriculum.ModuleTemplate{
			{
				ModuleID: "tpl-basic",
				Name:     "Moduł podstawowy",
				Kind:     curriculum.KindBasic,
				Procedures: []curriculum.ProcedureTemplate{
					{ID: "p1", Name: "EKG spoczynkowe", Type: "Moduł podstawowy", RequiredAsOperator: 200},
					{ID: "p2", Name: "Nakłucie jamy opłucnej", Type: "Inny moduł", RequiredAsOperator: 10},
				},
				Internships: []curriculum.InternshipTemplate{
					{ID: "i1", Name: "Staż kierunkowy", RequiredWorkingDays: 7},
				},
				Courses: []curriculum.CourseTemplate{
					{ID: "c1", Name: "Kurs wprowadzający", Mandatory: true},
				},
				WeeklyShiftHours: 10.0833,
			},
		},
	}
}

func modularValidationSpec() *specialization.Specialization {
	s := &specialization.Specialization{
		ID:          "spec-1",
		ResidentID:  "res-1",
		ProgramCode: "0706",
		Track:       curriculum.TrackModular,
		Modules: []*specialization.Module{
			{ID: "m1", TemplateModuleID: "tpl-basic", Name: "Moduł podstawowy", Kind: curriculum.KindBasic, Status: specialization.StatusActive},
		},
		CurrentModuleID: "m1",
	}
	return s
}

func TestValidateProcedure_ModularAccepted(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	s := modularValidationSpec()
	rec := &record.Procedure{
		Base:     record.Base{ModuleID: "m1", SyncStatus: record.SyncSynced},
		Name:     "EKG spoczynkowe",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleOperator,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, s)
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
}

func TestValidateProcedure_ModularNoActiveModuleBlocks(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	s := modularValidationSpec()
	s.CurrentModuleID = ""
	s.Modules[0].Status = specialization.StatusNotStarted

	res, err := v.ValidateProcedure(context.Background(), &record.Procedure{Name: "EKG spoczynkowe"}, s)
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeNoActiveModule))
}

func TestValidateProcedure_ModularUnknownBlocks(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Procedure{
		Name:     "Koronarografia",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleOperator,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeProcedureNotInModule))
}

func TestValidateProcedure_LegacyUnknownWarns(t *testing.T) {
	tpl := modularTemplate()
	tpl.Track = curriculum.TrackLegacy
	v := NewRecordValidator(&fakeStore{tpl: tpl}).WithClock(testClock())

	s := modularValidationSpec()
	s.Track = curriculum.TrackLegacy
	rec := &record.Procedure{
		Name:     "Procedura lokalna",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleOperator,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, s)
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeProcedureUnknown))
}

func TestValidateProcedure_LegacyCrossModuleMatchAccepted(t *testing.T) {
	tpl := modularTemplate()
	tpl.Track = curriculum.TrackLegacy
	tpl.Modules = append(tpl.Modules, curriculum.ModuleTemplate{
		ModuleID: "tpl-spec",
		Name:     "Moduł specjalistyczny",
		Kind:     curriculum.KindSpecialist,
		Procedures: []curriculum.ProcedureTemplate{
			{ID: "p3", Code: "89.52", Name: "Koronarografia", RequiredAsOperator: 50},
		},
	})
	v := NewRecordValidator(&fakeStore{tpl: tpl}).WithClock(testClock())

	// Legacy matching searches every module, so a procedure owned by a module
	// other than the active one is a legitimate match, not a mismatch.
	s := modularValidationSpec()
	s.Track = curriculum.TrackLegacy
	rec := &record.Procedure{
		Code:     "89.52",
		Name:     "Koronarografia",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleOperator,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, s)
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.False(t, res.HasCode(CodeModuleMismatch))
}

func TestValidateProcedure_RoleWithoutRequirement(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Procedure{
		Name:     "EKG spoczynkowe",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleAssistant,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.HasCode(CodeRoleNotRequired))
}

func TestValidateProcedure_TypeMismatchWarns(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Procedure{
		Name:     "Nakłucie jamy opłucnej",
		Location: "Szpital Wolski",
		Role:     curriculum.RoleOperator,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeTypeMismatch))
}

func TestValidateProcedure_CommonChecks(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Procedure{
		Base:      record.Base{SyncStatus: record.SyncNotSynced},
		Name:      "EKG spoczynkowe",
		Location:  "   ",
		Role:      curriculum.RoleOperator,
		Completed: true,
	}

	res, err := v.ValidateProcedure(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.HasCode(CodeLocationRequired))
	assert.True(t, res.HasCode(CodeUnsyncedCompleted))
}

func TestValidateProcedure_MissingTemplateWarns(t *testing.T) {
	v := NewRecordValidator(&fakeStore{}).WithClock(testClock())

	res, err := v.ValidateProcedure(context.Background(), &record.Procedure{Name: "EKG"}, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeTemplateNotFound))
}

func TestValidateProcedure_StoreFailure(t *testing.T) {
	v := NewRecordValidator(&fakeStore{err: errors.New("connection refused")}).WithClock(testClock())

	res, err := v.ValidateProcedure(context.Background(), &record.Procedure{Name: "EKG"}, modularValidationSpec())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, shared.ErrExternalService)
}

func TestValidateMedicalShift_ZeroDurationBlocks(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.MedicalShift{
		Base:     record.Base{ModuleID: "m1"},
		Location: "Szpital Wolski",
	}

	res, err := v.ValidateMedicalShift(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeZeroDuration))
}

func TestValidateMedicalShift_OneMinuteIsValid(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.MedicalShift{
		Base:     record.Base{ModuleID: "m1"},
		Minutes:  1,
		Location: "Szpital Wolski",
	}

	res, err := v.ValidateMedicalShift(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
}

func TestValidateMedicalShift_WeeklyTargetRemindsRegardlessOfLength(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())

	// The validator sees one shift at a time, so the reminder fires for any
	// shift in a module with a target, even one well below it.
	for _, hours := range []int{5, 24} {
		rec := &record.MedicalShift{
			Base:     record.Base{ModuleID: "m1"},
			Hours:    hours,
			Location: "Szpital Wolski",
		}

		res, err := v.ValidateMedicalShift(context.Background(), rec, modularValidationSpec())
		require.NoError(t, err)
		assert.True(t, res.IsValid())
		assert.True(t, res.HasCode(CodeWeeklyHoursTarget), "hours=%d", hours)
	}
}

func TestValidateMedicalShift_NoTargetNoReminder(t *testing.T) {
	tpl := modularTemplate()
	tpl.Modules[0].WeeklyShiftHours = 0
	v := NewRecordValidator(&fakeStore{tpl: tpl}).WithClock(testClock())
	rec := &record.MedicalShift{
		Base:     record.Base{ModuleID: "m1"},
		Hours:    12,
		Location: "Szpital Wolski",
	}

	res, err := v.ValidateMedicalShift(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.False(t, res.HasCode(CodeWeeklyHoursTarget))
}

func TestValidateInternship_DurationShortfall(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := &record.Internship{
		InternshipTemplateID: "i1",
		// 6 inclusive days against a 7 working-day requirement.
		Range: shared.DateRange{Start: start, End: start.AddDate(0, 0, 5)},
	}

	res, err := v.ValidateInternship(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	require.True(t, res.HasCode(CodeDurationShortfall))
	assert.Contains(t, res.Summary(), "spans 6 days but the template requires 7 working days")
}

func TestValidateInternship_ExactDurationPasses(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := &record.Internship{
		InternshipTemplateID: "i1",
		Range:                shared.DateRange{Start: start, End: start.AddDate(0, 0, 6)},
	}

	res, err := v.ValidateInternship(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
}

func TestValidateInternship_DateOrderAndFutureCompletion(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	future := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	rec := &record.Internship{
		InternshipTemplateID: "i1",
		Range:                shared.DateRange{Start: future, End: future.AddDate(0, 0, -3)},
		Completed:            true,
	}

	res, err := v.ValidateInternship(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.HasCode(CodeDateOrder))
	assert.True(t, res.HasCode(CodeFutureCompletion))
}

func TestValidateInternship_UnknownTemplateWarns(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	rec := &record.Internship{
		InternshipTemplateID: "i-missing",
		Range:                shared.DateRange{Start: start, End: start.AddDate(0, 0, 9)},
	}

	res, err := v.ValidateInternship(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeTemplateNotFound))
}

func TestValidateCourse_FutureDateBlocks(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Course{
		CourseTemplateID: "c1",
		Name:             "Kurs wprowadzający",
		CompletionDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		Base:             record.Base{Approved: true},
	}

	res, err := v.ValidateCourse(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.False(t, res.IsValid())
	assert.True(t, res.HasCode(CodeFutureDate))
}

func TestValidateCourse_MandatoryUnapprovedWarns(t *testing.T) {
	v := NewRecordValidator(&fakeStore{tpl: modularTemplate()}).WithClock(testClock())
	rec := &record.Course{
		CourseTemplateID: "c1",
		CompletionDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	res, err := v.ValidateCourse(context.Background(), rec, modularValidationSpec())
	require.NoError(t, err)
	assert.True(t, res.IsValid())
	assert.True(t, res.HasCode(CodeMandatoryUnapproved))
}
