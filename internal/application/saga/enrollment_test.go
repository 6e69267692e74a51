package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
	"github.com/rezhub/residency-progress-hub/internal/domain/resident"
	"github.com/rezhub/residency-progress-hub/internal/domain/shared"
	"github.com/rezhub/residency-progress-hub/internal/domain/specialization"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeResidentRepo struct {
	residents map[string]*resident.Resident
	deleted   []string
	createErr error
	existsErr error
}

func newFakeResidentRepo() *fakeResidentRepo {
	return &fakeResidentRepo{residents: make(map[string]*resident.Resident)}
}

func (f *fakeResidentRepo) Create(_ context.Context, r *resident.Resident) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.residents[r.ID] = r
	return nil
}

func (f *fakeResidentRepo) GetByID(_ context.Context, id string) (*resident.Resident, error) {
	r, ok := f.residents[id]
	if !ok {
		return nil, shared.ErrResidentNotFound
	}
	return r, nil
}

func (f *fakeResidentRepo) GetByEmail(_ context.Context, email string) (*resident.Resident, error) {
	for _, r := range f.residents {
		if r.Email == email {
			return r, nil
		}
	}
	return nil, shared.ErrResidentNotFound
}

func (f *fakeResidentRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, r := range f.residents {
		if r.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeResidentRepo) Delete(_ context.Context, id string) error {
	delete(f.residents, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSpecRepo struct {
	specs     map[string]*specialization.Specialization
	createErr error
}

func newFakeSpecRepo() *fakeSpecRepo {
	return &fakeSpecRepo{specs: make(map[string]*specialization.Specialization)}
}

func (f *fakeSpecRepo) Create(_ context.Context, s *specialization.Specialization) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.specs[s.ID] = s
	return nil
}

func (f *fakeSpecRepo) GetByID(_ context.Context, id string) (*specialization.Specialization, error) {
	s, ok := f.specs[id]
	if !ok {
		return nil, shared.ErrSpecializationNotFound
	}
	return s, nil
}

func (f *fakeSpecRepo) GetByResident(_ context.Context, residentID string) ([]*specialization.Specialization, error) {
	var out []*specialization.Specialization
	for _, s := range f.specs {
		if s.ResidentID == residentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSpecRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.specs))
	for id := range f.specs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeSpecRepo) Update(_ context.Context, s *specialization.Specialization) error {
	f.specs[s.ID] = s
	return nil
}

func (f *fakeSpecRepo) UpdateModule(_ context.Context, _ *specialization.Module) error {
	return nil
}

func (f *fakeSpecRepo) Delete(_ context.Context, id string) error {
	delete(f.specs, id)
	return nil
}

type fakeTemplateSource struct {
	template *curriculum.Template
	err      error
}

func (f *fakeTemplateSource) GetTemplate(_ context.Context, programCode string, track curriculum.Track) (*curriculum.Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.template == nil || f.template.ProgramCode != programCode || f.template.Track != track {
		return nil, shared.ErrTemplateNotFound
	}
	return f.template, nil
}

func (f *fakeTemplateSource) GetModuleTemplate(_ context.Context, _ string, _ curriculum.Track, _ string) (*curriculum.ModuleTemplate, error) {
	return nil, shared.ErrModuleTemplateNotFound
}

func (f *fakeTemplateSource) GetInternshipTemplate(_ context.Context, _ string, _ curriculum.Track, _ string) (*curriculum.InternshipTemplate, error) {
	return nil, shared.ErrModuleTemplateNotFound
}

func (f *fakeTemplateSource) GetCourseTemplate(_ context.Context, _ string, _ curriculum.Track, _ string) (*curriculum.CourseTemplate, error) {
	return nil, shared.ErrModuleTemplateNotFound
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func enrollmentTemplate() *curriculum.Template {
	return &curriculum.Template{
		ProgramCode:   "0706",
		ProgramName:   "Kardiologia",
		Track:         curriculum.TrackModular,
		Version:       "CMKP 2023",
		DurationYears: 5,
		Modules: []curriculum.ModuleTemplate{
			{
				ModuleID:       "tpl-basic",
				Name:           "Moduł podstawowy w zakresie chorób wewnętrznych",
				Kind:           curriculum.KindBasic,
				DurationMonths: 24,
				Procedures: []curriculum.ProcedureTemplate{
					{ID: "p1", Name: "EKG spoczynkowe", RequiredAsOperator: 200},
					{ID: "p2", Name: "Nakłucie jamy opłucnej", RequiredAsOperator: 10, RequiredAsAssistant: 5},
				},
				Courses: []curriculum.CourseTemplate{
					{ID: "c1", Name: "Diagnostyka obrazowa", Mandatory: true},
				},
				Internships: []curriculum.InternshipTemplate{
					{ID: "i1", Name: "Staż w oddziale intensywnej terapii", RequiredWorkingDays: 20},
					{ID: "i2", Name: "Staż w izbie przyjęć", RequiredWorkingDays: 10},
				},
				RequiredShiftHours:        480,
				WeeklyShiftHours:          10.0833,
				RequiredSelfEducationDays: 6,
			},
			{
				ModuleID:       "tpl-spec",
				Name:           "Moduł specjalistyczny w zakresie kardiologii",
				Kind:           curriculum.KindSpecialist,
				DurationMonths: 36,
				Procedures: []curriculum.ProcedureTemplate{
					{ID: "p3", Name: "Koronarografia", RequiredAsOperator: 50, RequiredAsAssistant: 100},
				},
			},
		},
	}
}

func validInput() EnrollmentInput {
	return EnrollmentInput{
		Email:         "Anna.Kowalska@szpital.pl",
		Password:      "s3cret-password",
		FullName:      "Anna Kowalska",
		LicenseNumber: "1234567",
		ProgramCode:   "0706",
		Track:         curriculum.TrackModular,
		StartDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newSaga() (*EnrollmentSaga, *fakeResidentRepo, *fakeSpecRepo, *fakeTemplateSource) {
	residents := newFakeResidentRepo()
	specs := newFakeSpecRepo()
	store := &fakeTemplateSource{template: enrollmentTemplate()}
	return NewEnrollmentSaga(residents, specs, store), residents, specs, store
}

// ─────────────────────────────────────────────────────────────────────────────
// Input validation
// ─────────────────────────────────────────────────────────────────────────────

func TestEnrollmentInputValidate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, validInput().Validate())
	})

	cases := []struct {
		name   string
		mutate func(*EnrollmentInput)
	}{
		{"email without at sign", func(i *EnrollmentInput) { i.Email = "anna.szpital.pl" }},
		{"short password", func(i *EnrollmentInput) { i.Password = "short" }},
		{"non-numeric program code", func(i *EnrollmentInput) { i.ProgramCode = "cardio" }},
		{"unknown track", func(i *EnrollmentInput) { i.Track = curriculum.Track("hybrid") }},
		{"zero start date", func(i *EnrollmentInput) { i.StartDate = time.Time{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			assert.Error(t, input.Validate())
		})
	}
}

func TestEnrollmentInvalidInputHasNoSideEffects(t *testing.T) {
	saga, residents, specs, _ := newSaga()

	input := validInput()
	input.Password = "short"

	result, err := saga.Execute(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	assert.Nil(t, result)
	assert.Empty(t, residents.residents)
	assert.Empty(t, specs.specs)
}

// ─────────────────────────────────────────────────────────────────────────────
// Execution
// ─────────────────────────────────────────────────────────────────────────────

func TestEnrollmentSuccess(t *testing.T) {
	saga, residents, specs, _ := newSaga()
	input := validInput()

	result, err := saga.Execute(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, result)

	res := result.Resident
	require.NotNil(t, res)
	assert.Equal(t, "anna.kowalska@szpital.pl", res.Email)
	assert.Equal(t, "Anna Kowalska", res.FullName)
	assert.NotEqual(t, input.Password, res.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.PasswordHash), []byte(input.Password)))
	assert.Contains(t, residents.residents, res.ID)

	spec := result.Specialization
	require.NotNil(t, spec)
	assert.Equal(t, res.ID, spec.ResidentID)
	assert.Equal(t, "0706", spec.ProgramCode)
	assert.Equal(t, "Kardiologia", spec.ProgramName)
	assert.Equal(t, curriculum.TrackModular, spec.Track)
	assert.Equal(t, 5, spec.DurationYears)
	assert.Equal(t, input.StartDate.AddDate(5, 0, 0), spec.PlannedEndDate)
	assert.Contains(t, specs.specs, spec.ID)
	assert.NoError(t, spec.Validate())
}

func TestEnrollmentProvisionsModulesBackToBack(t *testing.T) {
	saga, _, _, _ := newSaga()
	input := validInput()

	result, err := saga.Execute(context.Background(), input)
	require.NoError(t, err)

	spec := result.Specialization
	require.Len(t, spec.Modules, 2)

	basic, specialist := spec.Modules[0], spec.Modules[1]

	assert.Equal(t, "tpl-basic", basic.TemplateModuleID)
	assert.Equal(t, curriculum.KindBasic, basic.Kind)
	assert.Equal(t, input.StartDate, basic.StartDate)
	assert.Equal(t, input.StartDate.AddDate(0, 24, 0), basic.EndDate)

	assert.Equal(t, "tpl-spec", specialist.TemplateModuleID)
	assert.Equal(t, curriculum.KindSpecialist, specialist.Kind)
	assert.Equal(t, basic.EndDate, specialist.StartDate)
	assert.Equal(t, basic.EndDate.AddDate(0, 36, 0), specialist.EndDate)
}

func TestEnrollmentSeedsCountersFromTemplate(t *testing.T) {
	saga, _, _, _ := newSaga()

	result, err := saga.Execute(context.Background(), validInput())
	require.NoError(t, err)

	basic := result.Specialization.Modules[0]
	assert.Equal(t, 2, basic.TotalInternships)
	assert.Equal(t, 1, basic.TotalCourses)
	assert.Equal(t, 210, basic.RequiredProceduresOperator)
	assert.Equal(t, 5, basic.RequiredProceduresAssistant)
	assert.InDelta(t, 480.0, basic.RequiredShiftHours, 0.001)
	assert.InDelta(t, 10.0833, basic.WeeklyShiftHours, 0.001)
	assert.Equal(t, 6, basic.RequiredSelfEducationDays)

	specialist := result.Specialization.Modules[1]
	assert.Equal(t, 50, specialist.RequiredProceduresOperator)
	assert.Equal(t, 100, specialist.RequiredProceduresAssistant)
	assert.Zero(t, specialist.TotalInternships)
}

func TestEnrollmentActivatesFirstModule(t *testing.T) {
	saga, _, _, _ := newSaga()

	result, err := saga.Execute(context.Background(), validInput())
	require.NoError(t, err)

	spec := result.Specialization
	active := spec.ActiveModule()
	require.NotNil(t, active)
	assert.Equal(t, spec.Modules[0].ID, active.ID)
	assert.Equal(t, specialization.StatusActive, active.Status)
	assert.Equal(t, specialization.StatusNotStarted, spec.Modules[1].Status)
}

func TestEnrollmentDuplicateEmail(t *testing.T) {
	saga, residents, specs, _ := newSaga()
	input := validInput()

	_, err := saga.Execute(context.Background(), input)
	require.NoError(t, err)

	result, err := saga.Execute(context.Background(), input)

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrResidentAlreadyExists))
	assert.Nil(t, result)
	assert.Len(t, residents.residents, 1)
	assert.Len(t, specs.specs, 1)
}

func TestEnrollmentTemplateLookupFailure(t *testing.T) {
	saga, residents, _, store := newSaga()
	store.err = shared.ErrTemplateNotFound

	result, err := saga.Execute(context.Background(), validInput())

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrTemplateNotFound))
	assert.Nil(t, result)
	assert.Empty(t, residents.residents, "no account should exist when the template lookup fails")
}

func TestEnrollmentCompensatesResidentOnSpecFailure(t *testing.T) {
	saga, residents, specs, _ := newSaga()
	specs.createErr = errors.New("connection reset")

	result, err := saga.Execute(context.Background(), validInput())

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, residents.residents, "created account must be rolled back")
	assert.Len(t, residents.deleted, 1)
}
